package usecase

// Registry maps task types to their handlers. It is assembled once at
// startup by the DI container and read-only afterwards, so no locking.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a task type, replacing any previous binding.
func (r *Registry) Register(taskType string, handler Handler) {
	r.handlers[taskType] = handler
}

// Get returns the handler for a task type.
func (r *Registry) Get(taskType string) (Handler, bool) {
	handler, ok := r.handlers[taskType]
	return handler, ok
}
