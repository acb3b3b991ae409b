// Package badger implements the storage interfaces on BadgerDB.
//
// One Backend may serve both repositories. Vector keys are "vec:" followed
// by the big-endian token ID; checkpoint keys are "chkpt:" followed by the
// job name.
package badger
