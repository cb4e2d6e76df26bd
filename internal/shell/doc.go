// Package shell implements the interactive numbered menu on top of the
// catalog store and query functions.
//
// Each menu entry is a Command value; Session.Execute prompts for the
// arguments a command needs and prints its outcome. Expected outcomes such as
// a duplicate title, an unknown title, or an empty catalog are messages, while
// storage failures are returned to Run, which reports them and keeps looping.
package shell
