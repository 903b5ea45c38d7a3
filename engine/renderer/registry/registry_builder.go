package registry

// RegistryOption is a functional option applied to a registry during construction via NewRegistry.
type RegistryOption func(*registryImpl)

// WithMinimumAllocation overrides the minimum buffer allocation size in bytes.
// Every buffer created through the registry is sized to at least this floor,
// so empty scenes never request zero-size GPU resources. Values of 0 fall
// back to DefaultMinimumAllocation.
//
// Parameters:
//   - bytes: the minimum allocation floor in bytes
//
// Returns:
//   - RegistryOption: a function that applies the minimum allocation option to a registry
func WithMinimumAllocation(bytes uint64) RegistryOption {
	return func(r *registryImpl) {
		if bytes == 0 {
			bytes = DefaultMinimumAllocation
		}
		r.minAllocation = bytes
	}
}
