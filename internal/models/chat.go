package models

// Conversation identifies one message stream of a team: the shared general
// channel, or the direct channel between two members.
type Conversation struct {
	TeamID int64
	Type   MessageType
	// PeerID is the other participant of a direct conversation.
	PeerID int64
}

func GeneralConversation(teamID int64) Conversation {
	return Conversation{TeamID: teamID, Type: MessageTypeGeneral}
}

func DirectConversation(teamID, peerID int64) Conversation {
	return Conversation{TeamID: teamID, Type: MessageTypeDirect, PeerID: peerID}
}

func (c Conversation) IsDirect() bool {
	return c.Type == MessageTypeDirect
}
