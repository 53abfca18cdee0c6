package functions

import "fmt"

// Platform identifies the deployment platform generation in both metadata
// shapes.
const Platform = "gcfv1"

// Annotation is the flat trigger annotation consumed by legacy deployment
// tooling. It is rebuilt on every read so it always reflects live process
// state; callers must not cache or mutate a shared instance.
type Annotation map[string]any

// annotationFields projects one option layer into its flat annotation
// fields. Only fields that are actually set appear in the result, so the
// overlay in MergeAnnotation stays presence-based.
func annotationFields(o RuntimeOptions) Annotation {
	a := Annotation{}
	if regions := o.regionList(); regions != nil {
		a["regions"] = regions
	}
	if o.MemoryMB != nil {
		a["availableMemoryMb"] = *o.MemoryMB
	}
	if o.TimeoutSeconds != nil {
		a["timeout"] = fmt.Sprintf("%ds", *o.TimeoutSeconds)
	}
	if o.Concurrency != nil {
		a["concurrency"] = *o.Concurrency
	}
	if o.MinInstances != nil {
		a["minInstances"] = *o.MinInstances
	}
	if o.MaxInstances != nil {
		a["maxInstances"] = *o.MaxInstances
	}
	if o.ServiceAccount != "" {
		a["serviceAccount"] = o.ServiceAccount
	}
	if o.Labels != nil {
		labels := make(map[string]string, len(o.Labels))
		for k, v := range o.Labels {
			labels[k] = v
		}
		a["labels"] = labels
	}
	return a
}

// MergeAnnotation merges a global option layer with a declaration-specific
// layer into a fresh flat annotation. Scalar fields from the specific layer
// override the global layer; labels merge key-wise with specific values
// winning on collision.
func MergeAnnotation(global, specific RuntimeOptions) Annotation {
	merged := Annotation{"platform": Platform}
	for k, v := range annotationFields(global) {
		merged[k] = v
	}
	for k, v := range annotationFields(specific) {
		if k == "labels" {
			merged[k] = mergeLabels(annotationLabels(merged), v.(map[string]string))
			continue
		}
		merged[k] = v
	}
	if _, ok := merged["labels"]; !ok {
		merged["labels"] = map[string]string{}
	}
	return merged
}

func annotationLabels(a Annotation) map[string]string {
	if labels, ok := a["labels"].(map[string]string); ok {
		return labels
	}
	return nil
}

// mergeLabels unions two label sets; over wins on key collision. Always
// returns a fresh map.
func mergeLabels(base, over map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}
