// Package classload builds per-instructor workload reports from SF State's
// public class schedule.
//
// This package contains domain types, the row parser, the classifier and
// the aggregator, following Ben Johnson's Standard Package Layout.
// Implementations of the external collaborators live in subdirectories
// named after their primary dependency (e.g., rod/, goquery/, excelize/).
package classload
