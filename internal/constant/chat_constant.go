package constant

const (
	MessageSenderUser   = "user"
	MessageSenderAI     = "ai"
	MessageSenderSystem = "system"

	DefaultSessionTitle = "New Chat"

	// DocumentAttachedMessageFmt is the system message recorded on a
	// successful upload. %s is the original file name.
	DocumentAttachedMessageFmt = "Document uploaded: %s"

	// SessionTitleFromDocumentFmt renames a session after its document.
	SessionTitleFromDocumentFmt = "Chat about %s"

	// TitleFromMessageMaxLen bounds titles derived from the first user
	// message.
	TitleFromMessageMaxLen = 40
)

// Event type codes published to the notification bus.
const (
	EventSessionCreated   = "SESSION_CREATED"
	EventSessionDeleted   = "SESSION_DELETED"
	EventDocumentAttached = "DOCUMENT_ATTACHED"
	EventIngestionFailed  = "INGESTION_FAILED"
	EventQueryFailed      = "QUERY_FAILED"
)

// NotificationTemplates maps event codes to {placeholder} templates the
// notification worker renders from the event payload.
var NotificationTemplates = map[string]struct {
	Title    string
	Template string
	Level    string
}{
	EventSessionCreated:   {Title: "Session created", Template: "Started a new chat", Level: "info"},
	EventSessionDeleted:   {Title: "Session deleted", Template: "Chat removed", Level: "info"},
	EventDocumentAttached: {Title: "Document ready", Template: "{file_name} was processed and attached", Level: "info"},
	EventIngestionFailed:  {Title: "Upload failed", Template: "Could not process {file_name}: {reason}", Level: "error"},
	EventQueryFailed:      {Title: "No answer", Template: "{reason}", Level: "error"},
}
