package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minicortex/core/internal/ctxlog"
	"github.com/minicortex/core/internal/fsutil"
	"github.com/minicortex/core/internal/manifest"
	"github.com/minicortex/core/internal/nodeclass"
)

// Discover walks dir for .hcl manifest files, exactly like the
// teacher's fsutil.FindFilesByExtension + LoadGridsRecursively, skips
// any file whose base name begins with "_" (§4.3 "Discovery"), parses
// each remaining file, and registers every node class it defines. A
// class whose type name has no factory registered via
// nodeclass.Register makes Discover fail with a Validation error.
func (r *Registry) Discover(ctx context.Context, dir string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("registry: discovering node manifests", "dir", dir)

	paths, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		return fmt.Errorf("registry: walk %s: %w", dir, err)
	}

	for _, path := range paths {
		if strings.HasPrefix(filepath.Base(path), "_") {
			continue
		}

		manifests, err := manifest.ParseFile(path)
		if err != nil {
			return fmt.Errorf("registry: %w", err)
		}

		for _, m := range manifests {
			factory, ok := nodeclass.FactoryFor(m.TypeName)
			if !ok {
				return newErr(KindValidation, "no implementation registered for node type %q (manifest %s)", m.TypeName, path)
			}
			class := nodeclass.FromManifest(m, factory)
			if err := r.RegisterClass(class); err != nil {
				return err
			}
			logger.Debug("registry: registered node class", "type", m.TypeName, "category", m.Category, "source", path)
		}
	}

	logger.Info("registry: discovery complete", "classes", len(r.ClassNames()))
	return nil
}
