package domain

// Member is one connection's participation in a room's live presence.
// Two members may carry the same Identity; the connection tells them apart.
type Member struct {
	ConnectionID ConnectionID `json:"connectionId"`
	Identity
}

func NewMember(cid ConnectionID, user Identity) Member {
	return Member{ConnectionID: cid, Identity: user}
}
