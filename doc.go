// Package lscp implements a client for the LinuxSampler Control Protocol:
// a line-oriented text protocol that drives a sampler over a TCP control
// connection, with asynchronous server notifications arriving on a UDP
// side channel.
//
// A Client owns both sockets. Control commands are synchronous
// request/response transactions serialized per client (the protocol has no
// request correlation, so only one transaction may be in flight at a time).
// Notifications are received on a background goroutine, queued internally,
// and handed to the registered EventHandler in arrival order; liveness
// probes from the server (PING) are acknowledged without involving the
// handler.
package lscp

// Library identification, reported by the samplerctl version command.
const (
	Package = "go-lscp"
	Version = "0.2.0"
)
