package app

import "github.com/dkeye/Huddle/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a recipient whose outbound buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomKey, cid domain.ConnectionID) BackpressureAction
}

// SimplePolicy disconnects slow consumers; they rejoin with a fresh snapshot.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomKey, domain.ConnectionID) BackpressureAction {
	return KickMember
}

// DropPolicy keeps slow consumers and drops the frames they cannot take.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomKey, domain.ConnectionID) BackpressureAction {
	return DropFrame
}
