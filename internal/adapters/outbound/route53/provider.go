// Package route53 publishes records through the AWS Route53 authoritative
// DNS API. Hosted zones are resolved by domain name once and memoized for
// the process lifetime.
package route53

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/route53"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

type provider struct {
	logger *slog.Logger
	svc    route53iface
	mu     sync.Mutex
	zones  map[string]string
}

// route53iface is the subset of the Route53 client the provider uses,
// kept narrow so tests can substitute a fake.
type route53iface interface {
	ListHostedZonesByNameWithContext(
		ctx aws.Context,
		input *route53.ListHostedZonesByNameInput,
		opts ...request.Option,
	) (*route53.ListHostedZonesByNameOutput, error)
	ChangeResourceRecordSetsWithContext(
		ctx aws.Context,
		input *route53.ChangeResourceRecordSetsInput,
		opts ...request.Option,
	) (*route53.ChangeResourceRecordSetsOutput, error)
}

// New creates a Route53 DNS provider using the default AWS credential
// chain for the given region.
func New(logger *slog.Logger, region string) (reconciler.DNSProvider, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &provider{
		logger: logger,
		svc:    route53.New(sess),
		zones:  make(map[string]string),
	}, nil
}

var _ reconciler.DNSProvider = (*provider)(nil)

func (p *provider) UpdateRecordCommand(
	ctx context.Context,
	fqdn string,
	values []string,
	ttl int64,
	recordType reconciler.RecordType,
) error {
	zoneID, err := p.hostedZoneID(ctx, fqdn)
	if err != nil {
		return fmt.Errorf("resolve hosted zone for %s: %w", fqdn, err)
	}

	records := make([]*route53.ResourceRecord, 0, len(values))
	for _, value := range values {
		records = append(records, &route53.ResourceRecord{Value: aws.String(value)})
	}

	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &route53.ChangeBatch{
			Changes: []*route53.Change{
				{
					Action: aws.String(route53.ChangeActionUpsert),
					ResourceRecordSet: &route53.ResourceRecordSet{
						Name:            aws.String(fqdn),
						Type:            aws.String(string(recordType)),
						TTL:             aws.Int64(ttl),
						ResourceRecords: records,
					},
				},
			},
		},
	}

	if _, err := p.svc.ChangeResourceRecordSetsWithContext(ctx, input); err != nil {
		return fmt.Errorf("upsert %s record %s: %w", recordType, fqdn, err)
	}

	p.logger.DebugContext(ctx, "record upserted",
		"fqdn", fqdn,
		"type", string(recordType),
		"values", len(values),
	)

	return nil
}

// hostedZoneID finds the longest registered zone suffix of fqdn. Record
// names may carry dots themselves (x.app under example.com), so candidates
// are walked from the longest suffix down until a zone matches.
func (p *provider) hostedZoneID(ctx context.Context, fqdn string) (string, error) {
	for domain := zoneCandidate(fqdn); domain != ""; domain = zoneCandidate(domain) {
		p.mu.Lock()
		zoneID, ok := p.zones[domain]
		p.mu.Unlock()

		if ok {
			return zoneID, nil
		}

		out, err := p.svc.ListHostedZonesByNameWithContext(ctx, &route53.ListHostedZonesByNameInput{
			DNSName:  aws.String(domain + "."),
			MaxItems: aws.String("1"),
		})
		if err != nil {
			return "", fmt.Errorf("list hosted zones: %w", err)
		}

		if len(out.HostedZones) == 0 || aws.StringValue(out.HostedZones[0].Name) != domain+"." {
			continue
		}

		zoneID = strings.TrimPrefix(aws.StringValue(out.HostedZones[0].Id), "/hostedzone/")

		p.mu.Lock()
		p.zones[domain] = zoneID
		p.mu.Unlock()

		return zoneID, nil
	}

	return "", fmt.Errorf("no hosted zone for %s", fqdn)
}

// zoneCandidate strips the leftmost label; empty when no shorter suffix
// remains.
func zoneCandidate(fqdn string) string {
	if idx := strings.Index(fqdn, "."); idx >= 0 {
		return fqdn[idx+1:]
	}

	return ""
}
