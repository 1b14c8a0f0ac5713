package slirc

// An APIType identifies a module API: the abstract contract a module
// implements, such as "connection" or "protocol". All implementations of
// the same API are mutually exclusive on a single context.
type APIType struct {
	def *apiTypeDef
}

type apiTypeDef struct {
	name string
}

// NewAPIType mints a new module API identity.
func NewAPIType(name string) APIType {
	return APIType{def: &apiTypeDef{name: name}}
}

func (t APIType) String() string {
	if t.def == nil {
		return "<invalid api type>"
	}
	return t.def.name
}

// A Module is an owned implementation of a module API, bound to one IRC
// context for its whole life. Modules are registered with Load and removed
// with Unload; constructors of concrete modules conventionally call Load
// themselves.
type Module interface {
	// ModuleAPI reports the API identity this module implements.
	ModuleAPI() APIType

	// Unload releases the module's resources, detaching any handlers it
	// registered. The context calls it when the module is removed or
	// replaced; it is not called twice.
	Unload()
}

// Load registers m under its API identity. A previously loaded module with
// the same API is unloaded first. Load returns m.
func (irc *IRC) Load(m Module) Module {
	api := m.ModuleAPI()
	if old, ok := irc.modules[api]; ok {
		delete(irc.modules, api)
		old.Unload()
	}
	irc.modules[api] = m
	return m
}

// Unload removes and unloads the module registered for api. It returns
// ErrNoModule if none is loaded.
func (irc *IRC) Unload(api APIType) error {
	m, ok := irc.modules[api]
	if !ok {
		return ErrNoModule
	}
	delete(irc.modules, api)
	m.Unload()
	return nil
}

// Module returns the module loaded for api, or ErrNoModule.
func (irc *IRC) Module(api APIType) (Module, error) {
	m, ok := irc.modules[api]
	if !ok {
		return nil, ErrNoModule
	}
	return m, nil
}

// ModuleAs returns the module loaded for api as its concrete type M. It
// returns ErrNoModule when nothing is loaded for api or the loaded module
// is not an M.
func ModuleAs[M Module](irc *IRC, api APIType) (M, error) {
	var zero M
	m, ok := irc.modules[api]
	if !ok {
		return zero, ErrNoModule
	}
	typed, ok := m.(M)
	if !ok {
		return zero, ErrNoModule
	}
	return typed, nil
}
