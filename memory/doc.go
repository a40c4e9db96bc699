// Package memory provides the backing store of the fetch front end.
//
// Memory is a flat byte buffer with aligned, bounds-checked frame access.
// Paged rewrites addresses through a PageTable and services reads and writes
// that span pages. Shared serialises access to one Memory from many cores.
package memory
