package parse

import "github.com/Zuo-Peng/ai-chat-calendar/internal/record"

// claudeFormat reads Claude exports: a chats (or conversations) list whose
// entries hold chat_messages with sender and text.
var claudeFormat = &Format{
	Name:          record.Claude,
	FilenameHints: []string{"claude", "anthropic"},
	TopLevelField: "chats",
	EntryMarker:   "chat_messages",

	Containers: []ContainerRule{
		FieldContainer("chats"),
		FieldContainer("conversations"),
		ArrayContainer(),
		NestedContainer("chats"),
		NestedContainer("conversations"),
	},
	Turns: []TurnRule{
		MappingTurns("mapping"),
		ArrayTurns("chat_messages", "messages"),
		BlobTurn("conversation"),
	},

	TitleKeys: []string{"name", "title"},
	TimeKeys:  []string{"created_at", "create_time", "updated_at", "timestamp"},
	IDKeys:    []string{"uuid", "id"},
}
