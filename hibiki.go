// Package hibiki contains a Discord client library, focused on the long-lived
// gateway session between a bot process and Discord's real-time service.
//
// The entry point is the session package, which owns the Websocket lifecycle,
// the heartbeat, the in-process entity cache and the event fan-out. The api
// package is the synchronous REST client the session delegates to, and the
// discord package holds the wire entity types shared by both.
package hibiki
