package reference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsteer/console-core/pkg/observability"
	"github.com/cloudsteer/console-core/pkg/session"
)

// listStub serves canned list responses keyed by request path
func listStub(t *testing.T, results map[string][]map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req listRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Query.Only)

		rows, ok := results[r.URL.Path]
		if !ok {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results":     rows,
			"total_count": len(rows),
		})
	}))
}

func testListClient(t *testing.T, endpoint string) *ListClient {
	t.Helper()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	sess := session.NewManager(logger)
	sess.SetTokens("test-token", "")
	return NewListClient(endpoint, 2*time.Second, sess)
}

func TestRegionFetchBuildsCompoundLabel(t *testing.T) {
	server := listStub(t, map[string][]map[string]interface{}{
		"/inventory/region/list": {
			{"region_id": "region-1", "name": "US East", "region_code": "us-east-1", "provider": "aws"},
			{"region_id": "region-2", "name": "Global"},
		},
	})
	defer server.Close()

	items, err := regionFetch(testListClient(t, server.URL))(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "US East | us-east-1", items["region-1"].Label)
	assert.Equal(t, "aws", items["region-1"].Extra["provider"])
	// No region code, no separator.
	assert.Equal(t, "Global", items["region-2"].Label)
}

func TestProviderFetchCarriesDisplayExtras(t *testing.T) {
	server := listStub(t, map[string][]map[string]interface{}{
		"/identity/provider/list": {
			{"provider": "aws", "name": "AWS", "color": "#FF9900", "icon": "aws.svg"},
		},
	})
	defer server.Close()

	items, err := providerFetch(testListClient(t, server.URL))(context.Background())
	require.NoError(t, err)
	item, ok := items["aws"]
	require.True(t, ok)
	assert.Equal(t, "AWS", item.Label)
	assert.Equal(t, "#FF9900", item.Extra["color"])
	assert.Equal(t, "aws.svg", item.Extra["icon"])
}

func TestCloudServiceTypeFetchGroupsLabel(t *testing.T) {
	server := listStub(t, map[string][]map[string]interface{}{
		"/inventory/cloud-service-type/list": {
			{"cloud_service_type_id": "cst-1", "name": "Instance", "group": "EC2", "provider": "aws"},
		},
	})
	defer server.Close()

	items, err := cloudServiceTypeFetch(testListClient(t, server.URL))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EC2 > Instance", items["cst-1"].Label)
}

func TestFetchPropagatesUpstreamError(t *testing.T) {
	server := listStub(t, nil)
	defer server.Close()

	_, err := collectorFetch(testListClient(t, server.URL))(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestNewDefaultCatalogRegistersAllKinds(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	_, metrics := testDeps(t)
	sess := session.NewManager(logger)
	client := NewListClient("http://localhost:0", time.Second, sess)

	catalog := NewDefaultCatalog(client, 5*time.Minute, logger, metrics)
	assert.Equal(t, []string{
		KindCollector, KindCloudServiceType, KindPlugin, KindProtocol,
		KindProvider, KindRegion, KindSecret, KindServiceAccount, KindWebhook,
	}, catalog.Kinds())
}
