// Package mockpipe provides an in-memory, bounded byte channel for tests that
// need a stand-in for sockets, pipes, serial links and similar byte streams.
//
// An endpoint is obtained from [Loopback], which reads back its own writes, or
// from [Pair], which returns two cross-wired endpoints forming a full-duplex
// channel. Endpoints implement io.Reader and io.Writer and support three wait
// policies: block indefinitely, return immediately with whatever is available
// (the default), or wait up to a configurable duration before failing with
// [ErrTimeout].
//
//	pipe := mockpipe.Loopback(1024)
//
//	pipe.Write([]byte("hello"))
//
//	buf := make([]byte, 5)
//	io.ReadFull(pipe, buf) // buf now holds "hello"
package mockpipe
