package assistant

// Provider is a closed set: the gateway switches over these tags and
// adding a back-end means adding a tag plus its branch, not a lookup table.
type Provider string

const (
	ProviderQwen      Provider = "qwen-api"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
	ProviderGemini    Provider = "gemini"
)

// ModelDescriptor is a static catalog entry, immutable after process start.
type ModelDescriptor struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Provider    Provider `json:"provider"`
	Description string   `json:"description,omitempty"`
	Enabled     bool     `json:"enabled"`
}

// Registry is a pure lookup over the model catalog. It takes no locks:
// the slice is built once at startup and read-only afterwards.
type Registry struct {
	models []ModelDescriptor
	byName map[string]int
}

func NewRegistry(models []ModelDescriptor) *Registry {
	byName := make(map[string]int, len(models))
	for i, m := range models {
		byName[m.Name] = i
	}
	return &Registry{models: models, byName: byName}
}

// DefaultCatalog mirrors the launch configuration: the qwen family is live,
// the rest are catalogued but disabled until their providers are wired up.
func DefaultCatalog() []ModelDescriptor {
	return []ModelDescriptor{
		{Name: "qwen-max", Label: "Qwen-Max", Provider: ProviderQwen, Description: "largest qwen model", Enabled: true},
		{Name: "qwen-plus", Label: "Qwen-Plus", Provider: ProviderQwen, Description: "balanced qwen model", Enabled: true},
		{Name: "qwen-turbo", Label: "Qwen-Turbo", Provider: ProviderQwen, Description: "fastest qwen model", Enabled: true},
		{Name: "gpt-4", Label: "GPT-4", Provider: ProviderOpenAI, Enabled: false},
		{Name: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo", Provider: ProviderOpenAI, Enabled: false},
		{Name: "claude-3", Label: "Claude-3", Provider: ProviderAnthropic, Enabled: false},
		{Name: "llama3.1", Label: "Llama 3.1", Provider: ProviderOllama, Description: "local ollama model", Enabled: false},
		{Name: "gemini-1.5-flash", Label: "Gemini 1.5 Flash", Provider: ProviderGemini, Enabled: false},
	}
}

// Describe returns the descriptor for name, or false for unknown names.
// Unknown is not an error here; callers decide whether that is fatal.
func (r *Registry) Describe(name string) (ModelDescriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return ModelDescriptor{}, false
	}
	return r.models[i], true
}

func (r *Registry) IsEnabled(name string) bool {
	m, ok := r.Describe(name)
	return ok && m.Enabled
}

// List returns the whole catalog, disabled models included.
func (r *Registry) List() []ModelDescriptor {
	out := make([]ModelDescriptor, len(r.models))
	copy(out, r.models)
	return out
}

// ListEnabled returns enabled descriptors in catalog order.
func (r *Registry) ListEnabled() []ModelDescriptor {
	var out []ModelDescriptor
	for _, m := range r.models {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

// EnabledNames is ListEnabled reduced to the names, for error payloads.
func (r *Registry) EnabledNames() []string {
	enabled := r.ListEnabled()
	names := make([]string, 0, len(enabled))
	for _, m := range enabled {
		names = append(names, m.Name)
	}
	return names
}
