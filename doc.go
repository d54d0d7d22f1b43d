// Package rotor provides a preemptive round robin process scheduler.
//
// Worker processes are spawned stopped, then resumed one at a time for a
// fixed quantum and paused again. Tasks may be raised to an elevated class
// that is served before every normal turn. A controller mutates the task set
// at runtime over a binary request/response channel pair.
//
//	srv, _ := rotor.New(rotor.WithConfig(cfg))
//	rt := srv.Runtime()
//	_ = rt.Boot(ctx, "./worker-a", "./worker-b")
//	go rt.ServeControl(ctx, requests, responses)
//	err := rt.Run(ctx)
//
// The command line front end lives in cmd/rotor.
package rotor
