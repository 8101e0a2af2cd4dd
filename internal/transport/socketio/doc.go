// Package socketio is the reference Observer implementation of §6's
// event-stream contract: it emits "state" and "error" frames to every
// subscribed socket.io client. It is an optional, outer adapter — the
// core engine only depends on internal/observer.Observer, matching §1's
// scoping of the transport as an external collaborator. Wire encoding
// for frames is msgpack (binary, low-overhead for the broadcast rate of
// §4.5), distinct from the JSON wire contract internal/workspace uses
// for the stable, on-disk persistence format (§6/§11).
//
// Grounded on the teacher's modules/socketio(_client) packages for the
// zishang520 socket.io/engine.io conventions (DefaultOptions, event
// registration via On/Emit, types.NewSet for transport selection); the
// teacher only shows the client side (socketio dials out to a grid
// step), so the server side here is this repo's own addition, built in
// the same idiom.
package socketio
