package room

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jmccrae/buzzer-backend/internal/config"
	"github.com/jmccrae/buzzer-backend/internal/engine"
)

type Msg interface{ isRoomMsg() }

// FromClient carries one decoded command from a connected channel.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

func (FromClient) isRoomMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Outbound // where this client wants to receive messages
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

// AdminLogin asks to add the sending channel to the admin session set.
type AdminLogin struct {
	ClientID string
	Username string
	Password string
}

func (AdminLogin) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type Outbound interface{ isOutbound() }

// Snapshot is the full authoritative state as of one version. State values
// are copy-on-write in the engine, so a delivered snapshot never changes
// under the reader.
type Snapshot struct {
	Version      int
	State        engine.State
	AdminPresent bool
}

func (Snapshot) isOutbound() {}

// LoginResult is unicast to the channel that attempted an admin login.
type LoginResult struct{ OK bool }

func (LoginResult) isOutbound() {}

type View struct {
	Version    int
	NumClients int
	NumAdmins  int
	State      engine.State
}

// Room is the single mutual-exclusion domain for the round: one goroutine
// owns the state, the client outboxes, and the admin session set, and
// everything else talks to it through the inbox.
type Room struct {
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Outbound
	admins  map[string]struct{}
	names   map[string]string // clientID -> name it registered or buzzed under
	creds   config.Credentials
	clock   clockwork.Clock
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, initial engine.State, creds config.Credentials, clock clockwork.Clock, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]chan Outbound),
		admins:  make(map[string]struct{}),
		names:   make(map[string]string),
		creds:   creds,
		clock:   clock,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

// Inbox exposes the message channel for the WS layer and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				// Register the channel and replay current state to it alone.
				r.clients[msg.ClientID] = msg.Outbox
				r.send(msg.ClientID, r.snapshot())

			case Leave:
				r.handleLeave(msg)

			case FromClient:
				r.handleCommand(msg)

			case AdminLogin:
				r.handleAdminLogin(msg)

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					NumAdmins:  len(r.admins),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleCommand(msg FromClient) {
	cmd := msg.Cmd

	switch cmd.Type {
	case engine.CmdStart, engine.CmdLock, engine.CmdReset:
		if _, ok := r.admins[msg.ClientID]; !ok {
			// Unauthorized transitions are dropped without a reply.
			r.log.Debug("privileged command from non-admin",
				zap.String("client", msg.ClientID), zap.String("cmd", string(cmd.Type)))
			return
		}
	}

	// Stamp receipt time inside the loop so arrival order and reaction-time
	// order come from the same serialized clock reads.
	switch cmd.Type {
	case engine.CmdStart, engine.CmdBuzz:
		cmd.Now = r.clock.Now()
	}

	events, next, err := engine.Apply(r.state, cmd)
	if err != nil {
		r.log.Debug("command rejected",
			zap.String("client", msg.ClientID), zap.String("cmd", string(cmd.Type)), zap.Error(err))
		return
	}

	switch cmd.Type {
	case engine.CmdRegister, engine.CmdBuzz:
		r.names[msg.ClientID] = cmd.Name
	}

	for _, ev := range events {
		r.log.Info("event", zap.String("type", string(ev.Type)), zap.String("name", ev.Name))
	}

	r.state = next
	r.version++
	r.broadcast()
}

func (r *Room) handleAdminLogin(msg AdminLogin) {
	if !r.creds.Verify(msg.Username, msg.Password) {
		// The one rejection that is visible to the caller.
		r.send(msg.ClientID, LoginResult{OK: false})
		return
	}

	if _, ok := r.admins[msg.ClientID]; ok {
		// Already a member: ack again, but nothing changed to broadcast.
		r.send(msg.ClientID, LoginResult{OK: true})
		return
	}

	r.admins[msg.ClientID] = struct{}{}
	r.log.Info("admin authenticated", zap.String("client", msg.ClientID))
	r.send(msg.ClientID, LoginResult{OK: true})
	r.version++
	r.broadcast()
}

func (r *Room) handleLeave(msg Leave) {
	// The room is the sole closer of outboxes; closing here releases the
	// transport's writer goroutine. A slow-dropped client already left the
	// map, so there is no double close.
	if ch, ok := r.clients[msg.ClientID]; ok {
		close(ch)
		delete(r.clients, msg.ClientID)
	}

	changed := false
	if _, ok := r.admins[msg.ClientID]; ok {
		delete(r.admins, msg.ClientID)
		if len(r.admins) == 0 {
			// Presence flipped; every remaining viewer needs to see it.
			changed = true
		}
	}

	if name, ok := r.names[msg.ClientID]; ok {
		delete(r.names, msg.ClientID)
		events, next, err := engine.Apply(r.state, engine.Command{Type: engine.CmdMarkDisconnected, Name: name})
		if err == nil {
			for _, ev := range events {
				r.log.Info("event", zap.String("type", string(ev.Type)), zap.String("name", ev.Name))
			}
			r.state = next
			changed = true
		}
	}

	if changed {
		r.version++
		r.broadcast()
	}
}

func (r *Room) snapshot() Snapshot {
	return Snapshot{
		Version:      r.version,
		State:        r.state,
		AdminPresent: len(r.admins) > 0,
	}
}

func (r *Room) broadcast() {
	snap := r.snapshot()
	for id := range r.clients {
		r.send(id, snap)
	}
}

// send delivers best-effort: a client whose outbox is full is dropped so one
// stalled connection cannot hold up the loop or the other clients.
func (r *Room) send(id string, out Outbound) {
	ch, ok := r.clients[id]
	if !ok {
		return
	}
	select {
	case ch <- out:
	default:
		// Admin membership is settled by the Leave that follows once the
		// transport notices its outbox closed.
		r.log.Warn("dropping slow client", zap.String("client", id))
		close(ch)
		delete(r.clients, id)
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
