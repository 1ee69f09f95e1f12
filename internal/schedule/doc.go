// Package schedule decides when requests fire.
//
// TimeOfDay is the second-resolution wall-clock value every target is expressed in.
// Targets come from a literal list (ParseList), from random offsets (GenerateTestTimes)
// or from a cron expression (NextTargets). A Waiter blocks until the clock reaches a
// target second and then fires exactly one request.
package schedule
