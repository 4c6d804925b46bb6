package source

import (
	"fmt"
	"strings"
)

// Kinds accepted by Open.
const (
	KindDisk       = "disk"
	KindPrivileged = "privileged"
	KindConfigMap  = "configmap"
)

// Options selects and configures a Source.
type Options struct {
	Kind    string
	Path    string
	Elevate string

	Namespace  string
	ConfigMap  string
	Key        string
	Kubeconfig string
}

// Open builds the Source described by opts. An empty kind means disk; an
// empty path means the platform hosts file.
func Open(opts Options) (Source, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = DefaultPath()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", KindDisk:
		return Disk{Path: path}, nil
	case KindPrivileged:
		return Privileged{Path: path, Method: opts.Elevate}, nil
	case KindConfigMap:
		return NewConfigMap(opts.Namespace, opts.ConfigMap, opts.Key, opts.Kubeconfig)
	default:
		return nil, fmt.Errorf("unknown source %q (expected disk|privileged|configmap)", opts.Kind)
	}
}
