package focus

import "strings"

// ServiceLabelPrefix marks an explicit service override on an entity's
// labels (a repository topic, a project label). The suffix after the
// prefix is the service name.
const ServiceLabelPrefix = "service-"

// Attribution is the resolved service/environment pair for one entity
type Attribution struct {
	Service string
	Env     string
}

// Resolve derives service and env attribution for an entity.
//
// Service resolution order: an explicit service-* label wins (first match),
// otherwise the display name up to its right-most hyphen. Env always comes
// from the name: the segment after the right-most hyphen, or the literal
// "unknown" when the name has none. Splitting on the right-most hyphen is
// load-bearing: "game-ops-stage" is service "game-ops" in env "stage", not
// service "game" in env "ops-stage".
func Resolve(name string, labels []string) Attribution {
	attr := Attribution{Service: name, Env: "unknown"}

	if i := strings.LastIndex(name, "-"); i >= 0 {
		attr.Service = name[:i]
		attr.Env = name[i+1:]
	}

	for _, label := range labels {
		if strings.HasPrefix(label, ServiceLabelPrefix) {
			attr.Service = label[len(ServiceLabelPrefix):]
			break
		}
	}

	return attr
}
