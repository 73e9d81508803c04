package types

// Client -> Server
// register:
//   name: string (taken as-is, case-sensitive, immutable for the connection)
//
// admin-login:
//   username: string
//   password: string
//
// start-buzzer: {}   (admin only)
//
// lock-buzzers: {}   (admin only)
//
// reset-buzzers: {}  (admin only)
//
// buzz:
//   name: string (non-empty; an unseen name is registered on the spot)

// Server -> Client
// state: (broadcast on every mutation; unicast once on connect)
//   version: number
//   admin_present: boolean
//   state: see snapshot.go
//
// admin-login-success: {} (unicast to the logging-in channel)
//
// admin-login-fail: {}    (unicast; the only visible rejection)
//
// error: (transport-level only: bad json / unknown type)
//   error: string
