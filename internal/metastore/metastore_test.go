package metastore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore/hive"
)

func sp(s string) *string { return &s }
func ip(i int32) *int32   { return &i }

// fakeWire scripts raw call results for adapter tests.
type fakeWire struct {
	version      string
	versionErr   error
	versionCalls int

	databases      []string
	tables         map[string][]string
	table          *hive.Table
	fields         []*hive.FieldSchema
	partitionNames []string
	partitions     map[string]*hive.Partition
	partitionErrAt string
	detailCalls    []string
	functionsResp  *hive.GetAllFunctionsResponse
	functionsByDB  map[string][]string

	shutdownErr   error
	closeErr      error
	shutdownCalls int
	closeCalls    int
}

func (f *fakeWire) GetAllDatabases(ctx context.Context) ([]string, error) {
	return f.databases, nil
}

func (f *fakeWire) GetAllTables(ctx context.Context, dbName string) ([]string, error) {
	return f.tables[dbName], nil
}

func (f *fakeWire) GetTable(ctx context.Context, dbName, tblName string) (*hive.Table, error) {
	if f.table == nil {
		return nil, fmt.Errorf("no such table %s.%s", dbName, tblName)
	}
	return f.table, nil
}

func (f *fakeWire) GetFields(ctx context.Context, dbName, tblName string) ([]*hive.FieldSchema, error) {
	return f.fields, nil
}

func (f *fakeWire) GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error) {
	if len(f.partitionNames) > int(maxParts) {
		return f.partitionNames[:maxParts], nil
	}
	return f.partitionNames, nil
}

func (f *fakeWire) GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*hive.Partition, error) {
	f.detailCalls = append(f.detailCalls, partName)
	if partName == f.partitionErrAt {
		return nil, errors.New("partition fetch refused")
	}
	if p, ok := f.partitions[partName]; ok {
		return p, nil
	}
	return &hive.Partition{}, nil
}

func (f *fakeWire) GetAllFunctions(ctx context.Context) (*hive.GetAllFunctionsResponse, error) {
	if f.functionsResp == nil {
		return &hive.GetAllFunctionsResponse{}, nil
	}
	return f.functionsResp, nil
}

func (f *fakeWire) GetFunctions(ctx context.Context, dbName, pattern string) ([]string, error) {
	return f.functionsByDB[dbName], nil
}

func (f *fakeWire) GetVersion(ctx context.Context) (string, error) {
	f.versionCalls++
	return f.version, f.versionErr
}

func (f *fakeWire) Shutdown(ctx context.Context) error {
	f.shutdownCalls++
	return f.shutdownErr
}

func (f *fakeWire) Close() error {
	f.closeCalls++
	return f.closeErr
}

var _ wire = (*fakeWire)(nil)

func TestOpenSelectsAdapterByProbedVersion(t *testing.T) {
	tests := []struct {
		version  string
		wantCaps Capability
		wantErr  bool
	}{
		{version: "3.1.0", wantCaps: CapViewText | CapFunctionCatalog | CapLastAccessTime},
		{version: "2.3.9", wantCaps: CapViewText | CapFunctionCatalog | CapLastAccessTime},
		{version: "1.2.1", wantCaps: 0},
		{version: "0.14.0", wantCaps: 0},
		{version: "4.0.0", wantErr: true},
		{version: "weird-build-string", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			w := &fakeWire{version: tc.version}
			c, err := open(context.Background(), w, "", zap.NewNop())
			if tc.wantErr {
				var unsupported *UnsupportedProtocolVersionError
				require.ErrorAs(t, err, &unsupported)
				assert.Equal(t, tc.version, unsupported.Version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCaps, c.Capabilities())
			assert.Equal(t, 1, w.versionCalls)
		})
	}
}

func TestOpenVersionOverrideSkipsProbe(t *testing.T) {
	w := &fakeWire{version: "4.0.0"}
	c, err := open(context.Background(), w, VersionCompat, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Capability(0), c.Capabilities())
	assert.Zero(t, w.versionCalls, "override must not issue a version probe")

	c, err = open(context.Background(), w, VersionSuperset, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, c.Capabilities().Has(CapViewText))

	_, err = open(context.Background(), w, "hive9", zap.NewNop())
	var unsupported *UnsupportedProtocolVersionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "hive9", unsupported.Version)
}

func TestOpenProbeFailureIsTransportError(t *testing.T) {
	w := &fakeWire{versionErr: errors.New("broken pipe")}
	_, err := open(context.Background(), w, "", zap.NewNop())
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

// A view text the server never sent and a view text the server sent as ""
// are different observations and must stay distinguishable.
func TestViewTextUnsetVersusEmpty(t *testing.T) {
	w := &fakeWire{table: &hive.Table{
		TableType:        sp("VIRTUAL_VIEW"),
		ViewOriginalText: sp(""),
		// ViewExpandedText deliberately absent.
	}}
	c := newSupersetClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "v_events")
	require.NoError(t, err)

	orig, ok := tbl.OriginalViewText().Get()
	assert.True(t, ok, "server-sent empty string must read as set")
	assert.Equal(t, "", orig)
	assert.False(t, tbl.ExpandedViewText().IsSet(), "absent field must read as not-set")
}

func TestCompatHidesSupersetOnlyAttributes(t *testing.T) {
	// Even if an old server leaks bytes into these fields, the compat
	// schema does not define them and the adapter must not expose them.
	w := &fakeWire{table: &hive.Table{
		ViewOriginalText: sp("SELECT 1"),
		ViewExpandedText: sp("SELECT 1"),
		LastAccessTime:   ip(1700000000),
	}}
	c := newCompatClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "events")
	require.NoError(t, err)

	assert.False(t, tbl.OriginalViewText().IsSet())
	assert.False(t, tbl.ExpandedViewText().IsSet())
	assert.False(t, tbl.LastAccessTime().IsSet())
}

func TestPartitionsListingAtCapIsRefused(t *testing.T) {
	names := make([]string, int(maxPartitionNamesPerCall))
	for i := range names {
		names[i] = fmt.Sprintf("ds=%05d", i)
	}
	w := &fakeWire{
		table:          &hive.Table{PartitionKeys: []*hive.FieldSchema{{Name: sp("ds")}}},
		partitionNames: names,
	}
	c := newSupersetClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "events")
	require.NoError(t, err)

	_, err = tbl.Partitions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per-call limit")
	assert.Empty(t, w.detailCalls, "a refused listing must not fetch partition details")
}

func TestPartitionsEagerFetchAbortsOnFailure(t *testing.T) {
	w := &fakeWire{
		table:          &hive.Table{PartitionKeys: []*hive.FieldSchema{{Name: sp("ds")}}},
		partitionNames: []string{"ds=1", "ds=2", "ds=3"},
		partitionErrAt: "ds=2",
	}
	c := newSupersetClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "events")
	require.NoError(t, err)

	_, err = tbl.Partitions(context.Background())
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, []string{"ds=1", "ds=2"}, w.detailCalls, "the failing fetch ends the sequence")
}

func TestPartitionsCarryLocations(t *testing.T) {
	w := &fakeWire{
		table:          &hive.Table{PartitionKeys: []*hive.FieldSchema{{Name: sp("ds")}}},
		partitionNames: []string{"ds=1", "ds=2"},
		partitions: map[string]*hive.Partition{
			"ds=1": {Sd: &hive.StorageDescriptor{Location: sp("s3://b/t/ds=1")}},
			"ds=2": {}, // no storage descriptor at all
		},
	}
	c := newSupersetClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "events")
	require.NoError(t, err)

	parts, err := tbl.Partitions(context.Background())
	require.NoError(t, err)
	require.Len(t, parts, 2)
	loc, ok := parts[0].Location.Get()
	assert.True(t, ok)
	assert.Equal(t, "s3://b/t/ds=1", loc)
	assert.False(t, parts[1].Location.IsSet())
}

func TestSupersetListFunctions(t *testing.T) {
	w := &fakeWire{functionsResp: &hive.GetAllFunctionsResponse{
		Functions: []*hive.Function{
			{
				FunctionName: sp("to_epoch"),
				DbName:       sp("analytics"),
				ClassName:    sp("com.example.ToEpoch"),
				FunctionType: ip(hive.FunctionTypeJava),
			},
			{FunctionName: sp("legacy_fn")},
			nil,
		},
	}}
	c := newSupersetClient(w)
	fns, err := c.ListFunctions(context.Background())
	require.NoError(t, err)
	require.Len(t, fns, 2)

	assert.Equal(t, Some("analytics"), fns[0].DatabaseName)
	assert.Equal(t, Some("JAVA"), fns[0].Type)
	assert.False(t, fns[1].DatabaseName.IsSet())
	assert.False(t, fns[1].Type.IsSet())
}

func TestCompatListFunctionsEnumeratesPerDatabase(t *testing.T) {
	w := &fakeWire{
		databases: []string{"default", "analytics"},
		functionsByDB: map[string][]string{
			"analytics": {"to_epoch", "from_epoch"},
		},
	}
	c := newCompatClient(w)
	fns, err := c.ListFunctions(context.Background())
	require.NoError(t, err)
	require.Len(t, fns, 2)

	assert.Equal(t, Some("analytics"), fns[0].DatabaseName)
	assert.Equal(t, Some("to_epoch"), fns[0].FunctionName)
	assert.False(t, fns[0].ClassName.IsSet(), "old revisions return names only")
	assert.False(t, fns[0].Type.IsSet())
}

func TestCloseReportsShutdownFailure(t *testing.T) {
	w := &fakeWire{shutdownErr: errors.New("connection reset")}
	c := newSupersetClient(w)
	err := c.Close()
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, w.shutdownCalls)
}

func TestCloseClosesTransport(t *testing.T) {
	w := &fakeWire{}
	c := newCompatClient(w)
	require.NoError(t, c.Close())
	assert.Equal(t, 1, w.shutdownCalls)
	assert.Equal(t, 1, w.closeCalls)
}

func TestTableViewLocation(t *testing.T) {
	w := &fakeWire{table: &hive.Table{
		Sd: &hive.StorageDescriptor{Location: sp("hdfs:///warehouse/logs.db/events")},
	}}
	c := newSupersetClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "events")
	require.NoError(t, err)

	loc, ok := tbl.Location().Get()
	assert.True(t, ok)
	assert.Equal(t, "hdfs:///warehouse/logs.db/events", loc)

	w.table = &hive.Table{}
	tbl, err = c.GetTable(context.Background(), "logs", "bare")
	require.NoError(t, err)
	assert.False(t, tbl.Location().IsSet())
}

func TestTableViewFieldsAndPartitionKeys(t *testing.T) {
	w := &fakeWire{
		table: &hive.Table{PartitionKeys: []*hive.FieldSchema{
			{Name: sp("ds"), Type: sp("string")},
		}},
		fields: []*hive.FieldSchema{
			{Name: sp("id"), Type: sp("bigint"), Comment: sp("row id")},
			{Name: sp("payload"), Type: sp("string")},
		},
	}
	c := newSupersetClient(w)
	tbl, err := c.GetTable(context.Background(), "logs", "events")
	require.NoError(t, err)

	fields, err := tbl.Fields(context.Background())
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, Some("row id"), fields[0].Comment)
	assert.False(t, fields[1].Comment.IsSet())

	keys := tbl.PartitionKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, Some("ds"), keys[0].Name)
}
