package types

// AppEventType defines the type of event emitted by the application core.
type AppEventType string

const (
	EventTypeGenerationStart     AppEventType = "generation_start"     // EventTypeGenerationStart indicates a tool generation request has been sent to the model.
	EventTypeGenerationContent   AppEventType = "generation_content"   // EventTypeGenerationContent indicates streamed content from the model response.
	EventTypeGenerationEnd       AppEventType = "generation_end"       // EventTypeGenerationEnd indicates the model response is complete.
	EventTypeDraftReady          AppEventType = "draft_ready"          // EventTypeDraftReady indicates a validated draft is available for review.
	EventTypeToolSaved           AppEventType = "tool_saved"           // EventTypeToolSaved indicates a tool was added to or updated in the store.
	EventTypeToolsUpdate         AppEventType = "tools_update"         // EventTypeToolsUpdate indicates the persisted tool collection changed.
	EventTypeConfirmationRequest AppEventType = "confirmation_request" // EventTypeConfirmationRequest indicates a tool run is waiting on user confirmation.
	EventTypeConfirmationGranted AppEventType = "confirmation_granted" // EventTypeConfirmationGranted indicates the user confirmed the run.
	EventTypeConfirmationDenied  AppEventType = "confirmation_denied"  // EventTypeConfirmationDenied indicates the user cancelled the run.
	EventTypeConfirmationTimeout AppEventType = "confirmation_timeout" // EventTypeConfirmationTimeout indicates a confirmation request expired unanswered.
	EventTypeRunStart            AppEventType = "run_start"            // EventTypeRunStart indicates a tool script is about to execute.
	EventTypeRunResult           AppEventType = "run_result"           // EventTypeRunResult indicates a tool script finished with an outcome.
	EventTypePageLoaded          AppEventType = "page_loaded"          // EventTypePageLoaded indicates the browser finished loading a page.
	EventTypeUpdateBusy          AppEventType = "update_busy"          // EventTypeUpdateBusy indicates a change in the core's busy status.
	EventTypeError               AppEventType = "error"                // EventTypeError indicates an error occurred during processing.
)

// AppEvent represents an event emitted by the application core during operation.
type AppEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// Error contains error information for error events.
	Error error

	// Content holds text content for content-type events.
	Content string

	// ToolName is the name of the tool involved (for tool, confirmation, and run events).
	ToolName string

	// Type indicates the kind of event.
	Type AppEventType

	// IsBusy indicates whether the core is busy (for busy status events).
	IsBusy bool

	// ConfirmationID is a unique identifier for confirmation requests/responses.
	ConfirmationID string

	// Draft holds the validated draft for draft-ready events.
	Draft *DraftData

	// Run holds execution details for run events.
	Run *RunData

	// Page holds page details for navigation events.
	Page *PageData

	// Confirmation holds the reviewable details for confirmation requests.
	Confirmation *ConfirmationData
}

// DraftData is the display form of a validated tool draft.
type DraftData struct {
	// Name is the proposed tool name.
	Name string

	// Script is the proposed script body.
	Script string

	// Explanation describes what the proposed tool does.
	Explanation string

	// Validity is the textual validity classification of the draft.
	Validity string
}

// RunData describes one tool script execution.
type RunData struct {
	// ToolName is the name of the executed tool.
	ToolName string

	// URL is the page the script ran against.
	URL string

	// Success indicates whether the script completed without a fault.
	Success bool

	// Value is the textual form of the script's return value, if any.
	Value string

	// Detail is the fault detail for failed runs.
	Detail string

	// Duration is how long the run took.
	Duration string

	// AutoRun indicates the run was triggered by page-load dispatch.
	AutoRun bool
}

// PageData describes a loaded page.
type PageData struct {
	// URL is the final page URL after redirects.
	URL string

	// Title is the page title.
	Title string

	// VisitCount is the total number of pages loaded this install, when tracked.
	VisitCount int
}

// ConfirmationData carries what the user may review before confirming a run.
type ConfirmationData struct {
	// ToolName is the name of the tool awaiting confirmation.
	ToolName string

	// Description explains what the tool does.
	Description string

	// Script is the raw script body, shown only on explicit request.
	Script string

	// Icon is the tool's display icon.
	Icon string
}

// NewGenerationStartEvent creates a generation start event.
func NewGenerationStartEvent() *AppEvent {
	return &AppEvent{
		Type:     EventTypeGenerationStart,
		Metadata: make(map[string]interface{}),
	}
}

// NewGenerationContentEvent creates a generation content event.
func NewGenerationContentEvent(content string) *AppEvent {
	return &AppEvent{
		Type:     EventTypeGenerationContent,
		Content:  content,
		Metadata: make(map[string]interface{}),
	}
}

// NewGenerationEndEvent creates a generation end event.
func NewGenerationEndEvent() *AppEvent {
	return &AppEvent{
		Type:     EventTypeGenerationEnd,
		Metadata: make(map[string]interface{}),
	}
}

// NewDraftReadyEvent creates a draft ready event.
func NewDraftReadyEvent(draft *DraftData) *AppEvent {
	return &AppEvent{
		Type:     EventTypeDraftReady,
		Draft:    draft,
		Metadata: make(map[string]interface{}),
	}
}

// NewToolSavedEvent creates a tool saved event.
func NewToolSavedEvent(toolName string) *AppEvent {
	return &AppEvent{
		Type:     EventTypeToolSaved,
		ToolName: toolName,
		Metadata: make(map[string]interface{}),
	}
}

// NewToolsUpdateEvent creates a tools update event.
func NewToolsUpdateEvent(names []string) *AppEvent {
	return &AppEvent{
		Type:     EventTypeToolsUpdate,
		Metadata: map[string]interface{}{"tools": names},
	}
}

// NewConfirmationRequestEvent creates a confirmation request event.
func NewConfirmationRequestEvent(confirmationID string, data *ConfirmationData) *AppEvent {
	return &AppEvent{
		Type:           EventTypeConfirmationRequest,
		ConfirmationID: confirmationID,
		ToolName:       data.ToolName,
		Confirmation:   data,
		Metadata:       make(map[string]interface{}),
	}
}

// NewConfirmationGrantedEvent creates a confirmation granted event.
func NewConfirmationGrantedEvent(confirmationID, toolName string) *AppEvent {
	return &AppEvent{
		Type:           EventTypeConfirmationGranted,
		ConfirmationID: confirmationID,
		ToolName:       toolName,
		Metadata:       make(map[string]interface{}),
	}
}

// NewConfirmationDeniedEvent creates a confirmation denied event.
func NewConfirmationDeniedEvent(confirmationID, toolName string) *AppEvent {
	return &AppEvent{
		Type:           EventTypeConfirmationDenied,
		ConfirmationID: confirmationID,
		ToolName:       toolName,
		Metadata:       make(map[string]interface{}),
	}
}

// NewConfirmationTimeoutEvent creates a confirmation timeout event.
func NewConfirmationTimeoutEvent(confirmationID, toolName string) *AppEvent {
	return &AppEvent{
		Type:           EventTypeConfirmationTimeout,
		ConfirmationID: confirmationID,
		ToolName:       toolName,
		Metadata:       make(map[string]interface{}),
	}
}

// NewRunStartEvent creates a run start event.
func NewRunStartEvent(toolName, url string) *AppEvent {
	return &AppEvent{
		Type:     EventTypeRunStart,
		ToolName: toolName,
		Run:      &RunData{ToolName: toolName, URL: url},
		Metadata: make(map[string]interface{}),
	}
}

// NewRunResultEvent creates a run result event.
func NewRunResultEvent(run *RunData) *AppEvent {
	return &AppEvent{
		Type:     EventTypeRunResult,
		ToolName: run.ToolName,
		Run:      run,
		Metadata: make(map[string]interface{}),
	}
}

// NewPageLoadedEvent creates a page loaded event.
func NewPageLoadedEvent(url, title string, visitCount int) *AppEvent {
	return &AppEvent{
		Type:     EventTypePageLoaded,
		Page:     &PageData{URL: url, Title: title, VisitCount: visitCount},
		Metadata: make(map[string]interface{}),
	}
}

// NewUpdateBusyEvent creates a busy status update event.
func NewUpdateBusyEvent(isBusy bool) *AppEvent {
	return &AppEvent{
		Type:     EventTypeUpdateBusy,
		IsBusy:   isBusy,
		Metadata: make(map[string]interface{}),
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(err error) *AppEvent {
	return &AppEvent{
		Type:     EventTypeError,
		Error:    err,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the event and returns the event for chaining.
func (e *AppEvent) WithMetadata(key string, value interface{}) *AppEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsGenerationEvent returns true if this is any generation-related event.
func (e *AppEvent) IsGenerationEvent() bool {
	return e.Type == EventTypeGenerationStart ||
		e.Type == EventTypeGenerationContent ||
		e.Type == EventTypeGenerationEnd ||
		e.Type == EventTypeDraftReady
}

// IsConfirmationEvent returns true if this is any confirmation-related event.
func (e *AppEvent) IsConfirmationEvent() bool {
	return e.Type == EventTypeConfirmationRequest ||
		e.Type == EventTypeConfirmationGranted ||
		e.Type == EventTypeConfirmationDenied ||
		e.Type == EventTypeConfirmationTimeout
}

// IsRunEvent returns true if this is any execution-related event.
func (e *AppEvent) IsRunEvent() bool {
	return e.Type == EventTypeRunStart ||
		e.Type == EventTypeRunResult
}

// IsErrorEvent returns true if this is an error event.
func (e *AppEvent) IsErrorEvent() bool {
	return e.Type == EventTypeError
}
