package reference

import (
	"context"
	"time"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// Reference kinds served by the default catalog
const (
	KindCollector        = "collector"
	KindCloudServiceType = "cloud-service-type"
	KindPlugin           = "plugin"
	KindProtocol         = "protocol"
	KindProvider         = "provider"
	KindRegion           = "region"
	KindSecret           = "secret"
	KindServiceAccount   = "service-account"
	KindWebhook          = "webhook"
)

type collectorRow struct {
	CollectorID string `json:"collector_id"`
	Name        string `json:"name"`
}

type cloudServiceTypeRow struct {
	CloudServiceTypeID string `json:"cloud_service_type_id"`
	Name               string `json:"name"`
	Group              string `json:"group"`
	Provider           string `json:"provider"`
}

type pluginRow struct {
	PluginID string `json:"plugin_id"`
	Name     string `json:"name"`
}

type protocolRow struct {
	ProtocolID string `json:"protocol_id"`
	Name       string `json:"name"`
}

type providerRow struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}

type regionRow struct {
	RegionID   string `json:"region_id"`
	Name       string `json:"name"`
	RegionCode string `json:"region_code"`
	Provider   string `json:"provider"`
}

type secretRow struct {
	SecretID string `json:"secret_id"`
	Name     string `json:"name"`
}

type serviceAccountRow struct {
	ServiceAccountID string `json:"service_account_id"`
	Name             string `json:"name"`
	Provider         string `json:"provider"`
}

type webhookRow struct {
	WebhookID string `json:"webhook_id"`
	Name      string `json:"name"`
}

func collectorFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []collectorRow
		if err := c.List(ctx, "/inventory/collector/list", []string{"collector_id", "name"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.CollectorID] = Item{Key: r.CollectorID, Label: r.Name, Name: r.Name}
		}
		return items, nil
	}
}

func cloudServiceTypeFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []cloudServiceTypeRow
		if err := c.List(ctx, "/inventory/cloud-service-type/list", []string{"cloud_service_type_id", "name", "group", "provider"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.CloudServiceTypeID] = Item{
				Key:   r.CloudServiceTypeID,
				Label: r.Group + " > " + r.Name,
				Name:  r.Name,
				Extra: map[string]string{"group": r.Group, "provider": r.Provider},
			}
		}
		return items, nil
	}
}

func pluginFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []pluginRow
		if err := c.List(ctx, "/repository/plugin/list", []string{"plugin_id", "name"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.PluginID] = Item{Key: r.PluginID, Label: r.Name, Name: r.Name}
		}
		return items, nil
	}
}

func protocolFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []protocolRow
		if err := c.List(ctx, "/notification/protocol/list", []string{"protocol_id", "name"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.ProtocolID] = Item{Key: r.ProtocolID, Label: r.Name, Name: r.Name}
		}
		return items, nil
	}
}

func providerFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []providerRow
		if err := c.List(ctx, "/identity/provider/list", []string{"provider", "name", "color", "icon"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.Provider] = Item{
				Key:   r.Provider,
				Label: r.Name,
				Name:  r.Name,
				Extra: map[string]string{"color": r.Color, "icon": r.Icon},
			}
		}
		return items, nil
	}
}

func regionFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []regionRow
		if err := c.List(ctx, "/inventory/region/list", []string{"region_id", "name", "region_code", "provider"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			label := r.Name
			if r.RegionCode != "" {
				label = r.Name + " | " + r.RegionCode
			}
			items[r.RegionID] = Item{
				Key:   r.RegionID,
				Label: label,
				Name:  r.Name,
				Extra: map[string]string{"region_code": r.RegionCode, "provider": r.Provider},
			}
		}
		return items, nil
	}
}

func secretFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []secretRow
		if err := c.List(ctx, "/secret/secret/list", []string{"secret_id", "name"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.SecretID] = Item{Key: r.SecretID, Label: r.Name, Name: r.Name}
		}
		return items, nil
	}
}

func serviceAccountFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []serviceAccountRow
		if err := c.List(ctx, "/identity/service-account/list", []string{"service_account_id", "name", "provider"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.ServiceAccountID] = Item{
				Key:   r.ServiceAccountID,
				Label: r.Name,
				Name:  r.Name,
				Extra: map[string]string{"provider": r.Provider},
			}
		}
		return items, nil
	}
}

func webhookFetch(c *ListClient) FetchFunc {
	return func(ctx context.Context) (map[string]Item, error) {
		var rows []webhookRow
		if err := c.List(ctx, "/monitoring/webhook/list", []string{"webhook_id", "name"}, &rows); err != nil {
			return nil, err
		}
		items := make(map[string]Item, len(rows))
		for _, r := range rows {
			items[r.WebhookID] = Item{Key: r.WebhookID, Label: r.Name, Name: r.Name}
		}
		return items, nil
	}
}

// NewDefaultCatalog wires one store per reference kind against the
// upstream list client.
func NewDefaultCatalog(client *ListClient, ttl time.Duration, logger *observability.Logger, metrics *observability.Metrics) *Catalog {
	catalog, err := NewCatalog(logger,
		NewStore(KindCollector, ttl, collectorFetch(client), logger, metrics),
		NewStore(KindCloudServiceType, ttl, cloudServiceTypeFetch(client), logger, metrics),
		NewStore(KindPlugin, ttl, pluginFetch(client), logger, metrics),
		NewStore(KindProtocol, ttl, protocolFetch(client), logger, metrics),
		NewStore(KindProvider, ttl, providerFetch(client), logger, metrics),
		NewStore(KindRegion, ttl, regionFetch(client), logger, metrics),
		NewStore(KindSecret, ttl, secretFetch(client), logger, metrics),
		NewStore(KindServiceAccount, ttl, serviceAccountFetch(client), logger, metrics),
		NewStore(KindWebhook, ttl, webhookFetch(client), logger, metrics),
	)
	if err != nil {
		// Kinds are compile-time constants, duplicates cannot happen here.
		panic(err)
	}
	return catalog
}
