package dqfid

// Envelope holds the identity of a synchronizable entity: its local
// correlation key and, once the remote service accepted it, the remote id.
//
// The zero Envelope has neither. Entities obtain a LocalID through
// NewEnvelope when they are constructed.
type Envelope struct {
	localID   LocalID
	remoteID  int64
	remoteKey string
}

// NewEnvelope returns a pending envelope with a fresh LocalID.
func NewEnvelope() Envelope {
	return Envelope{localID: NewLocalID()}
}

// LocalID returns the correlation key.
func (e *Envelope) LocalID() LocalID {
	return e.localID
}

// SetLocalID replaces the correlation key. Used when hydrating an entity from
// a remote snapshot that carries its own clientId.
func (e *Envelope) SetLocalID(id LocalID) {
	e.localID = id
}

// RemoteID returns the remote identifier, or 0 while pending.
func (e *Envelope) RemoteID() int64 {
	return e.remoteID
}

// SetRemoteID records the identifier assigned by the remote service.
func (e *Envelope) SetRemoteID(id int64) {
	e.remoteID = id
}

// ClearRemoteID resets the entity to pending, e.g. before it is recreated remotely.
func (e *Envelope) ClearRemoteID() {
	e.remoteID = 0
}

// RemoteKey returns the remote correlation key (project key), if any.
func (e *Envelope) RemoteKey() string {
	return e.remoteKey
}

// SetRemoteKey records the remote correlation key.
func (e *Envelope) SetRemoteKey(key string) {
	e.remoteKey = key
}

// IsPersisted reports whether the remote service has accepted the entity.
func (e *Envelope) IsPersisted() bool {
	return e.remoteID != 0
}
