package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
)

func testMessage(t *testing.T) types.Message {
	t.Helper()
	payer := types.NewAccount()
	to := types.NewAccount()
	return types.NewMessage(types.NewMessageParam{
		FeePayer:        payer.PublicKey,
		RecentBlockhash: "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		Instructions: []types.Instruction{
			system.Transfer(system.TransferParam{From: payer.PublicKey, To: to.PublicKey, Amount: 1}),
		},
	})
}

func TestCreateRequest_URLMode(t *testing.T) {
	req, err := createRequest(createFlags{
		name: "Forge", symbol: "frg", decimals: 6, supply: "1000", plan: "Advanced",
		uri: "https://example.com/m.json",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.PlanAdvanced, req.Plan)
	assert.Equal(t, domain.MetadataURL, req.MetadataSource.Mode)
	assert.Equal(t, "https://example.com/m.json", req.MetadataSource.URI)
}

func TestCreateRequest_UploadModeWithImage(t *testing.T) {
	readFile := func(path string) ([]byte, error) {
		assert.Equal(t, "/tmp/logo.PNG", path)
		return []byte{0x89, 'P', 'N', 'G'}, nil
	}

	req, err := createRequest(createFlags{
		name: "Forge", symbol: "FRG", supply: "1", plan: "basic",
		image: "/tmp/logo.PNG", description: "desc",
	}, readFile)
	require.NoError(t, err)

	src := req.MetadataSource
	assert.Equal(t, domain.MetadataUpload, src.Mode)
	assert.Equal(t, "logo.PNG", src.ImageName)
	assert.Equal(t, "image/png", src.ImageType)
	assert.Equal(t, "desc", src.Description)
	assert.Len(t, src.Image, 4)
}

func TestCreateRequest_Errors(t *testing.T) {
	_, err := createRequest(createFlags{plan: "premium"}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	failing := func(string) ([]byte, error) { return nil, errors.New("no such file") }
	_, err = createRequest(createFlags{plan: "basic", image: "missing.png"}, failing)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "image/jpeg", imageType("a.JPEG"))
	assert.Equal(t, "image/svg+xml", imageType("a.svg"))
	assert.Equal(t, "application/octet-stream", imageType("a.bin"))
}

func TestManageRequest(t *testing.T) {
	req, err := manageRequest(domain.OperationMint, manageFlags{amount: "5"})
	require.NoError(t, err)
	assert.Equal(t, domain.MintMore{Amount: "5"}, req)

	req, err = manageRequest(domain.OperationThaw, manageFlags{owner: "Holder"})
	require.NoError(t, err)
	assert.Equal(t, domain.Thaw{Owner: "Holder"}, req)

	_, err = manageRequest(domain.OperationBurn, manageFlags{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = manageRequest(domain.OperationUpdateMetadata, manageFlags{name: "N", symbol: "S"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = manageRequest(domain.OperationCreate, manageFlags{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestManageRequest_Authorities(t *testing.T) {
	req, err := manageRequest(domain.OperationRevokeAuthority, manageFlags{authority: "freeze"})
	require.NoError(t, err)
	assert.Equal(t, domain.RevokeAuthority{Authority: domain.AuthorityFreeze}, req)

	req, err = manageRequest(domain.OperationTransferAuthority, manageFlags{authority: "mint", newOwner: "Next"})
	require.NoError(t, err)
	assert.Equal(t, domain.TransferAuthority{Authority: domain.AuthorityMint, NewOwner: "Next"}, req)

	_, err = manageRequest(domain.OperationRevokeAuthority, manageFlags{authority: "owner"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = manageRequest(domain.OperationTransferAuthority, manageFlags{authority: "mint"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPrintInfo(t *testing.T) {
	var out bytes.Buffer
	printInfo(&out, &domain.TokenInfo{
		Mint:           "MintAddr",
		Decimals:       6,
		DisplaySupply:  "1500",
		MintAuthority:  "Owner",
		DisplayBalance: "0.25",
	})
	assert.Contains(t, out.String(), "Supply:           1500")
	assert.Contains(t, out.String(), "Mint authority:   Owner")
	assert.Contains(t, out.String(), "Freeze authority: revoked")
	assert.Contains(t, out.String(), "Your balance:     0.25")
}

func TestRequired(t *testing.T) {
	assert.NoError(t, required(map[string]string{"mint": "abc"}))

	err := required(map[string]string{"mint": " ", "amount": ""})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "-amount, -mint")
}

func TestDescribeMessage(t *testing.T) {
	msg := testMessage(t)

	out := describeMessage(msg)
	assert.Contains(t, out, msg.Accounts[0].ToBase58())
	assert.Contains(t, out, "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N")
	assert.Contains(t, out, "#1 System")
}

func TestPromptApprover(t *testing.T) {
	tests := []struct {
		input   string
		approve bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			approve := promptApprover(strings.NewReader(tt.input), &out)

			err := approve(context.Background(), testMessage(t))
			if tt.approve {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errDeclined)
			}
			assert.Contains(t, out.String(), "Approve? [y/N]")
		})
	}
}

func TestPromptApprover_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := promptApprover(strings.NewReader("y\n"), &bytes.Buffer{})(ctx, testMessage(t))
	assert.ErrorIs(t, err, context.Canceled)
}
