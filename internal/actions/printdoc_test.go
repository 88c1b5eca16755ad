package actions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeyinka/paydesk/internal/domain"
)

func TestBuildProofOfPayment(t *testing.T) {
	html, err := BuildProofOfPayment(payoutResult(), CompanyInfo{
		Name:    "Acme Payments",
		Support: "help@acme.test",
	})
	require.NoError(t, err)

	doc := string(html)
	assert.Contains(t, doc, "Acme Payments")
	assert.Contains(t, doc, "help@acme.test")
	assert.Contains(t, doc, "PAY-REF-001")
	assert.Contains(t, doc, "Ada Obi")
	assert.Contains(t, doc, "9,850.00 NGN") // net amount
	assert.Contains(t, doc, "successful")
	assert.Contains(t, doc, "#027a48") // successful status color
}

func TestBuildProofOfPayment_SelfContained(t *testing.T) {
	html, err := BuildProofOfPayment(payoutResult(), CompanyInfo{Name: "Acme"})
	require.NoError(t, err)

	doc := string(html)
	// No external assets; the document must render identically when detached.
	assert.NotContains(t, doc, "<link")
	assert.NotContains(t, doc, "<script")
	assert.NotContains(t, doc, "src=")
	assert.Contains(t, doc, `style="`)
}

func TestBuildProofOfPayment_EscapesUserContent(t *testing.T) {
	r := payoutResult()
	r.Narration = `<script>alert("x")</script>`

	html, err := BuildProofOfPayment(r, CompanyInfo{Name: "Acme"})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>alert")
}

func TestBuildProofOfPayment_NilResult(t *testing.T) {
	_, err := BuildProofOfPayment(nil, CompanyInfo{})
	assert.ErrorIs(t, err, domain.ErrNoResult)
}

func TestBuildProofOfPayment_MissingRecipient(t *testing.T) {
	r := payoutResult()
	r.Recipient = nil

	html, err := BuildProofOfPayment(r, CompanyInfo{Name: "Acme"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), "Recipient"))
}
