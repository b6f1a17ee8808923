// Package order contains the Order aggregate: a delivery order placed by a
// client, priced at creation and later marked delivered.
//
// An Order is created by NewOrder with a price already computed and status
// Processing, or rebuilt from storage with RestoreOrder. The only mutation
// after creation is the Processing -> Delivered status change.
//
// Schema describes how an Order is projected into responses and which of
// its fields may be requested or sorted on.
package order
