// Package ports defines the interfaces between the Pitchline core and its
// adapters (driven ports): graph loading, session persistence, and
// distributed locking.
//
// The engine itself depends only on these contracts; concrete
// implementations live under pkg/adapters.
package ports
