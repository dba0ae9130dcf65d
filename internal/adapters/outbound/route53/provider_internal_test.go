package route53

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/kuberoute/internal/logic/reconciler"
)

type fakeRoute53 struct {
	zones     map[string]string // domain (no trailing dot) -> zone ID
	listCalls int
	changes   []*route53.ChangeResourceRecordSetsInput
	changeErr error
}

func (f *fakeRoute53) ListHostedZonesByNameWithContext(
	_ aws.Context,
	input *route53.ListHostedZonesByNameInput,
	_ ...request.Option,
) (*route53.ListHostedZonesByNameOutput, error) {
	f.listCalls++

	name := aws.StringValue(input.DNSName)

	zoneID, ok := f.zones[name[:len(name)-1]]
	if !ok {
		return &route53.ListHostedZonesByNameOutput{}, nil
	}

	return &route53.ListHostedZonesByNameOutput{
		HostedZones: []*route53.HostedZone{
			{
				Id:   aws.String("/hostedzone/" + zoneID),
				Name: aws.String(name),
			},
		},
	}, nil
}

func (f *fakeRoute53) ChangeResourceRecordSetsWithContext(
	_ aws.Context,
	input *route53.ChangeResourceRecordSetsInput,
	_ ...request.Option,
) (*route53.ChangeResourceRecordSetsOutput, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}

	f.changes = append(f.changes, input)

	return &route53.ChangeResourceRecordSetsOutput{}, nil
}

func newTestProvider(svc route53iface) *provider {
	return &provider{
		logger: slog.Default(),
		svc:    svc,
		zones:  make(map[string]string),
	}
}

func TestUpdateRecordCommand_UpsertsRecordSet(t *testing.T) {
	t.Parallel()

	fake := &fakeRoute53{zones: map[string]string{"example.com": "Z123"}}
	p := newTestProvider(fake)

	err := p.UpdateRecordCommand(
		t.Context(), "app.example.com", []string{"10.0.0.1", "10.0.0.2"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)
	require.Len(t, fake.changes, 1)

	input := fake.changes[0]
	require.Equal(t, "Z123", aws.StringValue(input.HostedZoneId))
	require.Len(t, input.ChangeBatch.Changes, 1)

	change := input.ChangeBatch.Changes[0]
	require.Equal(t, route53.ChangeActionUpsert, aws.StringValue(change.Action))

	rrset := change.ResourceRecordSet
	require.Equal(t, "app.example.com", aws.StringValue(rrset.Name))
	require.Equal(t, "A", aws.StringValue(rrset.Type))
	require.Equal(t, int64(60), aws.Int64Value(rrset.TTL))
	require.Len(t, rrset.ResourceRecords, 2)
	require.Equal(t, "10.0.0.1", aws.StringValue(rrset.ResourceRecords[0].Value))
	require.Equal(t, "10.0.0.2", aws.StringValue(rrset.ResourceRecords[1].Value))
}

func TestUpdateRecordCommand_MemoizesZoneLookup(t *testing.T) {
	t.Parallel()

	fake := &fakeRoute53{zones: map[string]string{"example.com": "Z123"}}
	p := newTestProvider(fake)

	for range 3 {
		err := p.UpdateRecordCommand(
			t.Context(), "app.example.com", []string{"10.0.0.1"}, 60, reconciler.RecordTypeA,
		)
		require.NoError(t, err)
	}

	require.Equal(t, 1, fake.listCalls)
	require.Len(t, fake.changes, 3)
}

func TestUpdateRecordCommand_UnknownZone(t *testing.T) {
	t.Parallel()

	fake := &fakeRoute53{zones: map[string]string{}}
	p := newTestProvider(fake)

	err := p.UpdateRecordCommand(
		t.Context(), "app.missing.org", []string{"10.0.0.1"}, 60, reconciler.RecordTypeA,
	)
	require.ErrorContains(t, err, "no hosted zone for app.missing.org")
	require.Empty(t, fake.changes)
}

func TestUpdateRecordCommand_DottedNameWalksZoneSuffixes(t *testing.T) {
	t.Parallel()

	fake := &fakeRoute53{zones: map[string]string{"example.com": "Z123"}}
	p := newTestProvider(fake)

	// The name part carries a dot, so the first suffix candidate
	// (app.example.com) is not a zone; resolution must fall through to
	// example.com.
	err := p.UpdateRecordCommand(
		t.Context(), "x.app.example.com", []string{"10.0.0.1"}, 60, reconciler.RecordTypeA,
	)
	require.NoError(t, err)
	require.Equal(t, 2, fake.listCalls)
	require.Len(t, fake.changes, 1)

	input := fake.changes[0]
	require.Equal(t, "Z123", aws.StringValue(input.HostedZoneId))
	require.Equal(t, "x.app.example.com", aws.StringValue(input.ChangeBatch.Changes[0].ResourceRecordSet.Name))
}

func TestUpdateRecordCommand_ChangeError(t *testing.T) {
	t.Parallel()

	apiErr := errors.New("throttled")
	fake := &fakeRoute53{
		zones:     map[string]string{"example.com": "Z123"},
		changeErr: apiErr,
	}
	p := newTestProvider(fake)

	err := p.UpdateRecordCommand(
		t.Context(), "app.example.com", []string{"10.0.0.1"}, 60, reconciler.RecordTypeA,
	)
	require.ErrorIs(t, err, apiErr)
}

func TestZoneCandidate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "example.com", zoneCandidate("app.example.com"))
	require.Equal(t, "sub.example.com", zoneCandidate("app.sub.example.com"))
	require.Empty(t, zoneCandidate("localdomain"))
}
