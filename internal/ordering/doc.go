// Package ordering keeps sibling positions (orderID) unique while children of a
// plan or a session are added, moved or reordered against a server that
// rejects duplicate positions.
//
// Everything here is a function of its inputs. Remote writes are injected as
// UpdateFunc values, so the same code drives the REST repositories, the
// in-memory reference backend and the tests.
package ordering
