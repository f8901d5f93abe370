// Package lockfreestack implements a Treiber-style lock-free stack used to
// exercise and demonstrate the hazard package: every Pop and Peek protects
// the head pointer with a hazard.Handle before dereferencing it, and every
// successful Pop retires the popped node instead of freeing it directly.
//
// The stack composes a *hazard.Domain as a struct field rather than trying
// to inherit from it — Go has no inheritance, and this is the natural
// translation of a C++ enable_hazard_from_this base class into composition.
package lockfreestack
