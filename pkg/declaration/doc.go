// Package declaration turns a decoded declaration into a build plan.
//
// New flattens nested component declarations into top-level ones, checks
// every reference and every reactive field against the class descriptors and
// computes an order in which referenced components come first. CreateWith
// then feeds the components, with references replaced by live instances, to
// a component.Adder such as the factory.
package declaration
