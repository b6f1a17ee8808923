// Package listing holds the request-scoped rules that shape list and detail
// responses: which fields appear, in which order rows are sorted, and which
// page of rows is returned.
//
// Everything here is pure and allocation-light. None of it touches storage;
// repositories receive the SortCriteria and Window computed here and only
// execute them.
//
// Unknown input is ignored rather than rejected. A sort specification that
// names no sortable field falls back to the caller's default order, and an
// optional field that is not allowed is simply left out of the projection.
// Both are deliberate contracts, not missing validation.
package listing
