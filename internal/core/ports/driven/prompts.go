package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from user-editable files or embed
// defaults in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptRAGAnswer is the retrieval-augmented answer prompt. The
	// template expects %s (language instruction, may be empty),
	// %s (context block) and %s (question) placeholders, in that order.
	PromptRAGAnswer = "rag_answer"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts. If no store is injected the service falls back to its
// hardcoded default prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts.
	SetPromptStore(store PromptStore)
}
