//go:build integration

package integration

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tsuite "github.com/stretchr/testify/suite"
	tc "github.com/testcontainers/testcontainers-go"

	th "github.com/kndndrj/rowconv/tests/testhelpers"
)

// ClickHouseTestSuite is the test suite for the clickhouse adapter.
type ClickHouseTestSuite struct {
	tsuite.Suite
	ctr *th.ClickHouseContainer
	ctx context.Context
}

func TestClickHouseTestSuite(t *testing.T) {
	tsuite.Run(t, new(ClickHouseTestSuite))
}

func (suite *ClickHouseTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	ctr, err := th.NewClickHouseContainer(suite.ctx)
	if err != nil {
		log.Fatal(err)
	}

	suite.ctr = ctr
}

func (suite *ClickHouseTestSuite) TearDownSuite() {
	suite.ctr.Source.Close()
	tc.CleanupContainer(suite.T(), suite.ctr)
}

func (suite *ClickHouseTestSuite) TestShouldListTables() {
	t := suite.T()

	got, err := suite.ctr.Source.Tables(suite.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user events", "users"}, got)
}

func (suite *ClickHouseTestSuite) TestShouldExportTable() {
	t := suite.T()

	want := `[["id","username"],` +
		`["1","john_doe"],` +
		`["2","jane \"js\" smith"]]` + "\n"

	got, table, err := th.Export(suite.ctx, suite.ctr.Source, "users")
	require.NoError(t, err)
	assert.Equal(t, "users", table)
	assert.Equal(t, want, got)
}

func (suite *ClickHouseTestSuite) TestShouldQuoteTableNames() {
	t := suite.T()

	got, _, err := th.Export(suite.ctx, suite.ctr.Source, "user events")
	require.NoError(t, err)
	assert.Equal(t, `[["v"],["quoted"]]`+"\n", got)
}

func (suite *ClickHouseTestSuite) TestShouldFailOnUnknownTable() {
	t := suite.T()

	_, _, err := th.Export(suite.ctx, suite.ctr.Source, "missing")
	assert.Error(t, err)
}
