package registry

// Upstream crates.io payloads. Nullable upstream fields are pointers so the
// proxy endpoints can re-encode them unchanged.

type CrateResponse struct {
	Crate      Crate      `json:"crate"`
	Versions   []Version  `json:"versions"`
	Keywords   []Keyword  `json:"keywords"`
	Categories []Category `json:"categories"`
}

type Crate struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	UpdatedAt       string       `json:"updated_at"`
	Versions        []int64      `json:"versions"`
	Keywords        []string     `json:"keywords"`
	Categories      []string     `json:"categories"`
	Badges          []CrateBadge `json:"badges"`
	CreatedAt       string       `json:"created_at"`
	Downloads       int64        `json:"downloads"`
	RecentDownloads *int64       `json:"recent_downloads"`
	MaxVersion      string       `json:"max_version"`
	NewestVersion   string       `json:"newest_version"`
	Description     *string      `json:"description"`
	Homepage        *string      `json:"homepage"`
	Documentation   *string      `json:"documentation"`
	Repository      *string      `json:"repository"`
	Links           CrateLinks   `json:"links"`
	ExactMatch      bool         `json:"exact_match"`
}

type CrateBadge struct {
	BadgeType  string            `json:"badge_type"`
	Attributes map[string]string `json:"attributes"`
}

type CrateLinks struct {
	VersionDownloads    string  `json:"version_downloads"`
	Versions            *string `json:"versions"`
	Owners              string  `json:"owners"`
	OwnerTeam           string  `json:"owner_team"`
	OwnerUser           string  `json:"owner_user"`
	ReverseDependencies string  `json:"reverse_dependencies"`
}

type Version struct {
	ID           int64                `json:"id"`
	Crate        string               `json:"crate"`
	Num          string               `json:"num"`
	DlPath       string               `json:"dl_path"`
	ReadmePath   string               `json:"readme_path"`
	UpdatedAt    string               `json:"updated_at"`
	CreatedAt    string               `json:"created_at"`
	Downloads    int64                `json:"downloads"`
	Features     map[string][]string  `json:"features"`
	Yanked       bool                 `json:"yanked"`
	License      *string              `json:"license"`
	Links        VersionLinks         `json:"links"`
	CrateSize    *int64               `json:"crate_size"`
	PublishedBy  *User                `json:"published_by"`
	AuditActions []VersionAuditAction `json:"audit_actions"`
}

type VersionLinks struct {
	Dependencies     string `json:"dependencies"`
	VersionDownloads string `json:"version_downloads"`
	Authors          string `json:"authors"`
}

type VersionAuditAction struct {
	Action string `json:"action"`
	User   User   `json:"user"`
	Time   string `json:"time"`
}

type User struct {
	ID     int64   `json:"id"`
	Login  string  `json:"login"`
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	URL    string  `json:"url"`
}

type Keyword struct {
	ID        string `json:"id"`
	Keyword   string `json:"keyword"`
	CreatedAt string `json:"created_at"`
	CratesCnt int64  `json:"crates_cnt"`
}

type Category struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	CratesCnt   int64  `json:"crates_cnt"`
}

type DependenciesResponse struct {
	Dependencies []Dependency `json:"dependencies"`
}

// Dependency kinds reported by the registry.
const (
	DependencyNormal = "normal"
	DependencyDev    = "dev"
	DependencyBuild  = "build"
)

type Dependency struct {
	ID              int64     `json:"id"`
	VersionID       int64     `json:"version_id"`
	CrateID         string    `json:"crate_id"`
	Req             string    `json:"req"`
	Optional        bool      `json:"optional"`
	DefaultFeatures bool      `json:"default_features"`
	Features        *[]string `json:"features"`
	Target          *string   `json:"target"`
	Kind            string    `json:"kind"`
	Downloads       int64     `json:"downloads"`
}
