package query

import (
	"iter"
	"reflect"
	"strings"

	"github.com/toyz/hierq/internal/model"
)

// managedSuffix is removed from a wrapper's Go type name to get the annotation's simple name
const managedSuffix = "Annotation"

// ManagedWrapper converts raw annotations into a typed view W. The annotation
// type it applies to follows from W's name: a wrapper type OrderAnnotation in
// namespace com.acme.annotations handles com.acme.annotations.Order.
type ManagedWrapper[W any] struct {
	typeName string
	wrap     func(model.Annotation) W
}

// NewManagedWrapper derives the annotation type name from W and namespace
func NewManagedWrapper[W any](namespace string, wrap func(model.Annotation) W) ManagedWrapper[W] {
	return ManagedWrapper[W]{typeName: ManagedTypeName[W](namespace), wrap: wrap}
}

// TypeName returns the qualified annotation type name the wrapper handles
func (w ManagedWrapper[W]) TypeName() string {
	return w.typeName
}

// ManagedTypeName applies the naming convention to W
func ManagedTypeName[W any](namespace string) string {
	t := reflect.TypeFor[W]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	simple := strings.TrimSuffix(t.Name(), managedSuffix)
	if namespace == "" {
		return simple
	}
	return namespace + "." + simple
}

// ManagedQuery yields annotations converted by a ManagedWrapper
type ManagedQuery[W any] struct {
	Query[W]

	annotations *AnnotationQuery
	wrapper     ManagedWrapper[W]
}

// Managed switches q to managed mode: its name filter is set to the wrapper's
// annotation type and every result is converted by the wrapper. q keeps its
// traversal settings and can still be configured through Annotations().
func Managed[W any](q *AnnotationQuery, wrapper ManagedWrapper[W]) *ManagedQuery[W] {
	q.WithName(wrapper.typeName)
	mq := &ManagedQuery[W]{annotations: q, wrapper: wrapper}
	mq.source = mq.stream
	return mq
}

// Annotations returns the underlying annotation query
func (q *ManagedQuery[W]) Annotations() *AnnotationQuery {
	return q.annotations
}

func (q *ManagedQuery[W]) stream() iter.Seq[W] {
	raw := q.annotations.Stream()
	return func(yield func(W) bool) {
		for a := range raw {
			if !yield(q.wrapper.wrap(a)) {
				return
			}
		}
	}
}
