package model

// Truthpack schemas. One JSON file per domain under the truthpack
// directory; a missing or malformed file is "no data", never an error.

// Route is a single route entry from routes.json
type Route struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// RoutesPack is the routes.json payload
type RoutesPack struct {
	Routes []Route `json:"routes"`
}

// EnvUsage records one place an env variable is read
type EnvUsage struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
}

// EnvVariable is a single entry from env.json
type EnvVariable struct {
	Name   string     `json:"name"`
	UsedIn []EnvUsage `json:"usedIn,omitempty"`
}

// EnvPack is the env.json payload
type EnvPack struct {
	Variables []EnvVariable `json:"variables"`
}

// Contract is a single entry from contracts.json
type Contract struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// ContractsPack is the contracts.json payload
type ContractsPack struct {
	Contracts []Contract `json:"contracts"`
}

// ProtectedResource is a single entry from auth.json
type ProtectedResource struct {
	Path          string   `json:"path"`
	RequiredRoles []string `json:"requiredRoles,omitempty"`
}

// AuthPack is the auth.json payload
type AuthPack struct {
	ProtectedResources []ProtectedResource `json:"protectedResources"`
}

// PackageManifest holds the dependency sections of a package.json
type PackageManifest struct {
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	DevDependencies  map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}
