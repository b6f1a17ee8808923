// Package queries contains read-only business operations.
// Query handlers read through ports.OrderReader and shape results with the
// order schema; they never open transactions.
package queries
