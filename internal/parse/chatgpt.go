package parse

import "github.com/Zuo-Peng/ai-chat-calendar/internal/record"

// chatGPTFormat reads ChatGPT data exports: a conversations list whose
// entries carry a node mapping, with flat message arrays and single
// conversation blobs accepted as variants.
var chatGPTFormat = &Format{
	Name:          record.ChatGPT,
	FilenameHints: []string{"chatgpt", "openai"},
	TopLevelField: "conversations",
	EntryMarker:   "mapping",

	Containers: []ContainerRule{
		FieldContainer("conversations"),
		ArrayContainer(),
		NestedContainer("conversations"),
	},
	Turns: []TurnRule{
		MappingTurns("mapping"),
		ArrayTurns("messages"),
		BlobTurn("conversation"),
	},

	TitleKeys: []string{"title", "name"},
	TimeKeys:  []string{"create_time", "created_at", "update_time", "timestamp"},
	IDKeys:    []string{"id", "conversation_id"},
}
