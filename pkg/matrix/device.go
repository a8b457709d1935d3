package matrix

// DeviceMatrix is the write side of a linear system. Devices and Jacobian
// providers stamp into it without owning the factorization.
type DeviceMatrix interface {
	AddElement(i, j int, value float64) // 1-based indexing
	AddRHS(i int, value float64)
}
