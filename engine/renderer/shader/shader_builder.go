package shader

// ShaderBuilderOption is a functional option for configuring a Shader during construction.
type ShaderBuilderOption func(*shaderImpl)

// WithEntryPoint overrides the default entry point name.
//
// Parameters:
//   - entryPoint: the entry point function name in the WGSL source
//
// Returns:
//   - ShaderBuilderOption: functional option to set the entry point
func WithEntryPoint(entryPoint string) ShaderBuilderOption {
	return func(s *shaderImpl) {
		s.entryPoint = entryPoint
	}
}
