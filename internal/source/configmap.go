package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultConfigMapKey is the data key holding the hosts text.
const DefaultConfigMapKey = "hosts"

// ConfigMap keeps the hosts text under one key of a Kubernetes ConfigMap.
type ConfigMap struct {
	Namespace string
	Name      string
	Key       string
	Client    typedcorev1.ConfigMapInterface
}

// NewConfigMap connects with the in-cluster config, or with kubeconfig when
// not running in a cluster ("" uses the default loading rules).
func NewConfigMap(namespace, name, key, kubeconfig string) (*ConfigMap, error) {
	if namespace == "" || name == "" {
		return nil, fmt.Errorf("configmap source needs a namespace and a name")
	}
	cfg, err := rest.InClusterConfig()
	if err != nil {
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		if kubeconfig != "" {
			rules.ExplicitPath = kubeconfig
		}
		cfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("kubernetes config: %w", err)
		}
	}
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("kubernetes client: %w", err)
	}
	return &ConfigMap{
		Namespace: namespace,
		Name:      name,
		Key:       key,
		Client:    clientset.CoreV1().ConfigMaps(namespace),
	}, nil
}

func (c *ConfigMap) key() string {
	if c.Key == "" {
		return DefaultConfigMapKey
	}
	return c.Key
}

func (c *ConfigMap) Describe() string {
	return fmt.Sprintf("configmap/%s/%s[%s]", c.Namespace, c.Name, c.key())
}

func (c *ConfigMap) Read(ctx context.Context) (string, error) {
	cm, err := c.Client.Get(ctx, c.Name, metav1.GetOptions{})
	if err != nil {
		return "", unavailable("read", c, err)
	}
	contents, ok := cm.Data[c.key()]
	if !ok {
		return "", unavailable("read", c, fmt.Errorf("key %q not present", c.key()))
	}
	return contents, nil
}

// Write updates the key in place, keeping the ConfigMap's other keys, and
// creates the ConfigMap when it does not exist yet.
func (c *ConfigMap) Write(ctx context.Context, content string) error {
	cm, err := c.Client.Get(ctx, c.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm = &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: c.Name, Namespace: c.Namespace},
			Data:       map[string]string{c.key(): content},
		}
		if _, err := c.Client.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return unavailable("write", c, err)
		}
		log.Info().Str("source", c.Describe()).Msg("configmap created")
		return nil
	}
	if err != nil {
		return unavailable("write", c, err)
	}

	cm = cm.DeepCopy()
	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	cm.Data[c.key()] = content
	if _, err := c.Client.Update(ctx, cm, metav1.UpdateOptions{}); err != nil {
		return unavailable("write", c, err)
	}
	return nil
}
