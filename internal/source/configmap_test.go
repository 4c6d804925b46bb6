package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestConfigMap_ReadWrite(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "hosts", Namespace: "dns"},
		Data:       map[string]string{"hosts": "127.0.0.1 localhost", "other": "keep"},
	})
	c := &ConfigMap{Namespace: "dns", Name: "hosts", Client: client.CoreV1().ConfigMaps("dns")}
	ctx := context.Background()

	got, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1 localhost", got)

	require.NoError(t, c.Write(ctx, "10.0.0.1 db"))
	cm, err := client.CoreV1().ConfigMaps("dns").Get(ctx, "hosts", metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"hosts": "10.0.0.1 db", "other": "keep"}, cm.Data)
}

func TestConfigMap_WriteCreatesMissing(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset()
	c := &ConfigMap{Namespace: "dns", Name: "edge", Key: "custom", Client: client.CoreV1().ConfigMaps("dns")}
	ctx := context.Background()

	_, err := c.Read(ctx)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "configmap/dns/edge[custom]", ue.Source)

	require.NoError(t, c.Write(ctx, "# hello"))
	got, err := c.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "# hello", got)
}

func TestConfigMap_MissingKey(t *testing.T) {
	t.Parallel()

	client := fake.NewSimpleClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "hosts", Namespace: "dns"},
	})
	c := &ConfigMap{Namespace: "dns", Name: "hosts", Client: client.CoreV1().ConfigMaps("dns")}

	_, err := c.Read(context.Background())
	require.ErrorContains(t, err, `key "hosts" not present`)

	require.NoError(t, c.Write(context.Background(), "x"))
	got, err := c.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "x", got)
}
