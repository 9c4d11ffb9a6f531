// Package events pushes booth happenings to the UI shell over socket.io.
// Each booth session is a room keyed by its session ID; the shell joins the
// room when the booth opens and renders the events it receives as countdown
// overlays, toasts and print-progress indicators.
package events

import (
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/engine.io/v2/utils"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

// Hub is the socket.io fan-out. It satisfies core.Notifier: emits never
// block the booth pipeline, delivery is fire-and-forget.
type Hub struct {
	io *socketio.Server
}

func NewHub() *Hub {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(5000000)
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	io := socketio.NewServer(nil, opts)

	io.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		me := socket.Id()
		utils.Log().Println("shell connected %v", me)

		socket.On("join-booth", func(datas ...any) {
			room := socketio.Room(datas[0].(string))
			utils.Log().Printf("Socket %v watches booth %v\n", me, room)
			socket.Join(room)
		})
		socket.On("leave-booth", func(datas ...any) {
			room := socketio.Room(datas[0].(string))
			socket.Leave(room)
		})
		socket.On("disconnect", func(datas ...any) {
			socket.RemoveAllListeners("")
			socket.Disconnect(true)
		})
	})
	return &Hub{io: io}
}

// Server exposes the underlying socket.io server for mounting and shutdown.
func (h *Hub) Server() *socketio.Server {
	return h.io
}

func (h *Hub) emit(sessionID, event string, args ...any) {
	h.io.To(socketio.Room(sessionID)).Emit(event, args...)
}

func (h *Hub) CountdownTick(sessionID string, remaining int) {
	h.emit(sessionID, "countdown-tick", remaining)
}

func (h *Hub) FrameAdded(sessionID string, count, want int) {
	h.emit(sessionID, "frame-added", count, want)
}

func (h *Hub) PrintState(sessionID string, state string) {
	h.emit(sessionID, "print-state", state)
}

func (h *Hub) Toast(sessionID string, level, message string) {
	h.emit(sessionID, "toast", level, message)
}
