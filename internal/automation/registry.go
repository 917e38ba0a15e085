package automation

import "time"

// Descriptor pairs a job with its recurrence hint. The registry is built
// once at process start and handed to the trigger; it is never mutated at
// runtime.
type Descriptor struct {
	Job      Job
	Interval time.Duration
}

type Registry struct {
	descriptors []Descriptor
	byName      map[string]Descriptor
}

func NewRegistry(descriptors ...Descriptor) *Registry {
	byName := make(map[string]Descriptor, len(descriptors))
	for _, descriptor := range descriptors {
		byName[descriptor.Job.Name()] = descriptor
	}

	return &Registry{
		descriptors: descriptors,
		byName:      byName,
	}
}

func (r *Registry) All() []Descriptor {
	return r.descriptors
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	descriptor, ok := r.byName[name]

	return descriptor, ok
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, descriptor := range r.descriptors {
		names[i] = descriptor.Job.Name()
	}

	return names
}
