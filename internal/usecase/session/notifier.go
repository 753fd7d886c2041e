package session

// Notifier delivers events to connected clients. The transport layer
// implements it; the router and scheduler only ever talk to this interface,
// never to a concrete broadcaster.
type Notifier interface {
	// ToRoom delivers to every connection currently in the room.
	ToRoom(room, event string, payload interface{})
	// ToRoomExcept delivers to every connection in the room except the
	// given one.
	ToRoomExcept(room, exceptConn, event string, payload interface{})
	// ToConn delivers to a single connection.
	ToConn(connID, event string, payload interface{})
}
