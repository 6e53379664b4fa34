package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importTestCSV = "name,description,hourly_rate_usd,color,icon,is_active\nDesign,,65,,,\n"

func importTestContext(t *testing.T, req *httptest.ResponseRecorder) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(req)
	return c
}

func TestImportBodyMultipartFile(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "categories.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(importTestCSV))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	c := importTestContext(t, httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/categories/import", &buf)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	reader, err := importBody(c)
	require.NoError(t, err)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, importTestCSV, string(data))
	assert.NoError(t, reader.Close())
}

func TestImportBodyRawCSV(t *testing.T) {
	c := importTestContext(t, httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/categories/import", bytes.NewBufferString(importTestCSV))
	c.Request.Header.Set("Content-Type", "text/csv")

	reader, err := importBody(c)
	require.NoError(t, err)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, importTestCSV, string(data))
	assert.NoError(t, reader.Close())
}
