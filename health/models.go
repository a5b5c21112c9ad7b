package health

// Health is the application/health+json report body.
type Health struct {
	Status      string             `json:"status"`
	Version     string             `json:"version,omitempty"`
	ReleaseID   string             `json:"releaseId,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Output      string             `json:"output,omitempty"`
	Checks      map[string][]Check `json:"checks,omitempty"`
	Links       map[string]string  `json:"links,omitempty"`
	ServiceID   string             `json:"serviceId,omitempty"`
	Description string             `json:"description,omitempty"`
}

type Check struct {
	ComponentID       string            `json:"componentId,omitempty"`
	ComponentType     string            `json:"componentType,omitempty"`
	ObservedValue     string            `json:"observedValue,omitempty"`
	ObservedUnit      string            `json:"observedUnit,omitempty"`
	Status            string            `json:"status,omitempty"`
	AffectedEndpoints []string          `json:"affectedEndpoints,omitempty"`
	Time              string            `json:"time,omitempty"`
	Output            string            `json:"output,omitempty"`
	Links             map[string]string `json:"links,omitempty"`
	AdditionalKeys    map[string]string `json:"additionalKeys,omitempty"`
}

const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)
