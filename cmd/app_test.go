package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangxie/parquet-atlas/model"
)

func testFileData() *model.FileData {
	return &model.FileData{
		Source:   "test.parquet",
		FileSize: 1000,
		ColumnChunks: []model.ColumnChunkData{
			{
				PathInSchema:  "a",
				StartOffset:   4,
				TotalByteSize: 400,
				NumValues:     100,
				Codec:         1,
				DataPages: []model.PageData{
					{StartOffset: 4, HeaderSize: 10, CompressedPageSize: 390, Encoding: 0, PageType: 0},
				},
			},
			{
				PathInSchema:  "b",
				StartOffset:   404,
				TotalByteSize: 396,
				NumValues:     100,
				Codec:         0,
			},
		},
		Metadata: &model.FileMetadata{
			SchemaRoot: &model.SchemaNode{
				ElementType: "group",
				Children: map[string]*model.SchemaNode{
					"a": {ElementType: "leaf", Type: 1, ByteLength: 20},
					"b": {ElementType: "leaf", Type: 6, ByteLength: 30},
				},
			},
			Version:       2,
			CreatedBy:     "test-writer",
			ColumnCount:   2,
			RowCount:      100,
			RowGroupCount: 1,
		},
	}
}

func testApp(t *testing.T) *AtlasApp {
	h, err := model.BuildHierarchy(testFileData())
	require.NoError(t, err)

	app := NewAtlasApp()
	app.currentFile = "test.parquet"
	app.hierarchy = h
	app.showMainView()
	return app
}

func Test_ShowMainView_InitialState(t *testing.T) {
	app := testApp(t)

	require.NotNil(t, app.explorer)
	require.Len(t, app.explorer.Levels(), 1)
	require.Equal(t, 0, app.cursorLevel)
	require.Equal(t, 0, app.cursorIndex)

	box := app.cursorBox()
	require.NotNil(t, box)
	require.Equal(t, "overview-magic", box.Segment.ID)
}

func Test_AtlasApp_HeaderView(t *testing.T) {
	app := testApp(t)

	text := app.headerView.GetText(false)
	require.Contains(t, text, "test.parquet")
	require.Contains(t, text, "1000 B")
	require.Contains(t, text, "test-writer")
}

func Test_AtlasApp_MoveCursor(t *testing.T) {
	app := testApp(t)

	app.moveCursor(0, 1)
	require.Equal(t, 1, app.cursorIndex)
	require.Equal(t, "overview-rowgroups", app.cursorBox().Segment.ID)

	// Clamps at both ends of the level
	app.moveCursor(0, 100)
	require.Equal(t, 4, app.cursorIndex)
	app.moveCursor(0, -100)
	require.Equal(t, 0, app.cursorIndex)

	// Only one level yet, so vertical moves clamp in place
	app.moveCursor(1, 0)
	require.Equal(t, 0, app.cursorLevel)
	app.moveCursor(-1, 0)
	require.Equal(t, 0, app.cursorLevel)
}

func Test_AtlasApp_ClickSegment_DrillsIn(t *testing.T) {
	app := testApp(t)

	app.clickSegment(0, "overview-rowgroups")
	require.Len(t, app.explorer.Levels(), 2)
	require.Equal(t, 1, app.cursorLevel)
	require.Equal(t, 0, app.cursorIndex)
	require.Equal(t, "rowgroup-0", app.cursorBox().Segment.ID)
}

func Test_AtlasApp_ActivateCursor(t *testing.T) {
	app := testApp(t)

	app.moveCursor(0, 1) // overview-rowgroups
	app.activateCursor()
	require.Len(t, app.explorer.Levels(), 2)

	app.activateCursor() // rowgroup-0
	require.Len(t, app.explorer.Levels(), 3)
	require.Equal(t, "chunk-0-0", app.cursorBox().Segment.ID)
}

func Test_AtlasApp_ClickSegment_InvalidID(t *testing.T) {
	app := testApp(t)

	app.clickSegment(0, "no-such-segment")
	require.Len(t, app.explorer.Levels(), 1)
	require.Equal(t, 0, app.cursorLevel)
	require.Contains(t, app.statusLine.GetText(false), "segment not found")
}

func Test_AtlasApp_NavigateBack(t *testing.T) {
	app := testApp(t)

	app.clickSegment(0, "overview-rowgroups")
	app.clickSegment(1, "rowgroup-0")
	require.Len(t, app.explorer.Levels(), 3)

	app.navigateBack()
	require.Len(t, app.explorer.Levels(), 2)
	require.Equal(t, 1, app.cursorLevel)

	app.navigateBack()
	require.Len(t, app.explorer.Levels(), 1)
	require.Equal(t, 0, app.cursorLevel)

	// Back at the root is a no-op
	app.navigateBack()
	require.Len(t, app.explorer.Levels(), 1)
}

func Test_AtlasApp_ToggleInfoPanel(t *testing.T) {
	app := testApp(t)

	require.False(t, app.infoVisible)
	app.toggleInfoPanel()
	require.True(t, app.infoVisible)

	text := app.infoView.GetText(false)
	require.Contains(t, text, "Description")
	require.Contains(t, text, "PAR1 magic marker")

	app.toggleInfoPanel()
	require.False(t, app.infoVisible)
}

func Test_AtlasApp_GetHeaderHeight(t *testing.T) {
	app := testApp(t)
	// Two info lines plus created-by, plus two border rows
	require.Equal(t, 5, app.getHeaderHeight())

	empty := NewAtlasApp()
	require.Equal(t, 3, empty.getHeaderHeight())
}
