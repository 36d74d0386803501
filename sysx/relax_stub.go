// relax_stub.go — fallback no-op for Relax where the cgo PAUSE version
// is not built: on non-amd64 targets (where unsupported.go's
// compile-time guard already fails the build) and on amd64 when the
// noasm or nocgo build tag is set. Keeps the arch-file-per-concern
// layout symmetric with ring24/relax_stub.go (teacher).

//go:build !amd64 || noasm || nocgo

package sysx

//go:nosplit
//go:inline
func Relax() {}
