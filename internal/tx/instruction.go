// Package tx holds the closed set of instructions the builders emit, the
// ordered sequence they are assembled into, and the shared submission path.
package tx

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// Kind identifies an instruction variant.
type Kind string

const (
	KindCreateAccount   Kind = "create_account"
	KindInitializeMint  Kind = "initialize_mint"
	KindCreateATA       Kind = "create_ata"
	KindMintTo          Kind = "mint_to"
	KindCreateMetadata  Kind = "create_metadata"
	KindRevokeAuthority Kind = "revoke_authority"
	KindSetAuthority    Kind = "set_authority"
	KindTransfer        Kind = "transfer"
	KindBurn            Kind = "burn"
	KindFreeze          Kind = "freeze"
	KindThaw            Kind = "thaw"
	KindUpdateMetadata  Kind = "update_metadata"
)

// Instruction is one of the variants below. The set is closed: only this
// package implements it.
type Instruction interface {
	Kind() Kind
	Compile() types.Instruction
	sealed()
}

// AuthorityType selects which mint authority SetAuthority changes.
type AuthorityType string

const (
	MintAuthority   AuthorityType = "mint"
	FreezeAuthority AuthorityType = "freeze"
)

// CreateAccount allocates the mint account, funded by Payer and owned by the
// token program.
type CreateAccount struct {
	Payer    common.PublicKey
	Mint     common.PublicKey
	Lamports uint64
	Space    uint64
}

// InitializeMint sets decimals and the mint and freeze authorities.
type InitializeMint struct {
	Mint            common.PublicKey
	Decimals        uint8
	MintAuthority   common.PublicKey
	FreezeAuthority common.PublicKey
}

// CreateATA creates Owner's associated token account for Mint.
type CreateATA struct {
	Payer   common.PublicKey
	Owner   common.PublicKey
	Mint    common.PublicKey
	Account common.PublicKey
}

// MintTo mints Amount base units into Destination.
type MintTo struct {
	Mint        common.PublicKey
	Destination common.PublicKey
	Authority   common.PublicKey
	Amount      uint64
}

// CreateMetadata attaches a Metaplex metadata record with zero royalty and
// no creators, collection or uses.
type CreateMetadata struct {
	Metadata  common.PublicKey
	Mint      common.PublicKey
	Authority common.PublicKey
	Payer     common.PublicKey
	Name      string
	Symbol    string
	URI       string
	Mutable   bool
}

// SetAuthority moves the selected mint authority from Current to
// NewAuthority. A nil NewAuthority revokes it.
type SetAuthority struct {
	Mint         common.PublicKey
	Current      common.PublicKey
	Authority    AuthorityType
	NewAuthority *common.PublicKey
}

// Transfer moves lamports between system accounts.
type Transfer struct {
	From     common.PublicKey
	To       common.PublicKey
	Lamports uint64
}

// Burn destroys Amount base units held in Account.
type Burn struct {
	Account common.PublicKey
	Mint    common.PublicKey
	Owner   common.PublicKey
	Amount  uint64
}

// Freeze freezes a token account.
type Freeze struct {
	Account   common.PublicKey
	Mint      common.PublicKey
	Authority common.PublicKey
}

// Thaw thaws a frozen token account.
type Thaw struct {
	Account   common.PublicKey
	Mint      common.PublicKey
	Authority common.PublicKey
}

// UpdateMetadata replaces name, symbol and uri. The record stays mutable.
type UpdateMetadata struct {
	Metadata        common.PublicKey
	UpdateAuthority common.PublicKey
	Name            string
	Symbol          string
	URI             string
}

func (CreateAccount) Kind() Kind  { return KindCreateAccount }
func (InitializeMint) Kind() Kind { return KindInitializeMint }
func (CreateATA) Kind() Kind      { return KindCreateATA }
func (MintTo) Kind() Kind         { return KindMintTo }
func (CreateMetadata) Kind() Kind { return KindCreateMetadata }
func (Transfer) Kind() Kind       { return KindTransfer }
func (Burn) Kind() Kind           { return KindBurn }
func (Freeze) Kind() Kind         { return KindFreeze }
func (Thaw) Kind() Kind           { return KindThaw }
func (UpdateMetadata) Kind() Kind { return KindUpdateMetadata }

func (i SetAuthority) Kind() Kind {
	if i.NewAuthority == nil {
		return KindRevokeAuthority
	}
	return KindSetAuthority
}

func (CreateAccount) sealed()  {}
func (InitializeMint) sealed() {}
func (CreateATA) sealed()      {}
func (MintTo) sealed()         {}
func (CreateMetadata) sealed() {}
func (SetAuthority) sealed()   {}
func (Transfer) sealed()       {}
func (Burn) sealed()           {}
func (Freeze) sealed()         {}
func (Thaw) sealed()           {}
func (UpdateMetadata) sealed() {}

func (i CreateAccount) Compile() types.Instruction {
	return system.CreateAccount(system.CreateAccountParam{
		From:     i.Payer,
		New:      i.Mint,
		Owner:    common.TokenProgramID,
		Lamports: i.Lamports,
		Space:    i.Space,
	})
}

func (i InitializeMint) Compile() types.Instruction {
	freeze := i.FreezeAuthority
	return token.InitializeMint(token.InitializeMintParam{
		Decimals:   i.Decimals,
		Mint:       i.Mint,
		MintAuth:   i.MintAuthority,
		FreezeAuth: &freeze,
	})
}

func (i CreateATA) Compile() types.Instruction {
	return associated_token_account.CreateAssociatedTokenAccount(
		associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 i.Payer,
			Owner:                  i.Owner,
			Mint:                   i.Mint,
			AssociatedTokenAccount: i.Account,
		},
	)
}

func (i MintTo) Compile() types.Instruction {
	return token.MintTo(token.MintToParam{
		Mint:   i.Mint,
		To:     i.Destination,
		Auth:   i.Authority,
		Amount: i.Amount,
	})
}

func (i CreateMetadata) Compile() types.Instruction {
	return token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
		Metadata:                i.Metadata,
		Mint:                    i.Mint,
		MintAuthority:           i.Authority,
		Payer:                   i.Payer,
		UpdateAuthority:         i.Authority,
		UpdateAuthorityIsSigner: true,
		IsMutable:               i.Mutable,
		Data: token_metadata.DataV2{
			Name:                 i.Name,
			Symbol:               i.Symbol,
			Uri:                  i.URI,
			SellerFeeBasisPoints: 0,
		},
	})
}

func (i SetAuthority) Compile() types.Instruction {
	authType := token.AuthorityTypeMintTokens
	if i.Authority == FreezeAuthority {
		authType = token.AuthorityTypeFreezeAccount
	}
	var newAuth *common.PublicKey
	if i.NewAuthority != nil {
		key := *i.NewAuthority
		newAuth = &key
	}
	return token.SetAuthority(token.SetAuthorityParam{
		Account:  i.Mint,
		NewAuth:  newAuth,
		AuthType: authType,
		Auth:     i.Current,
	})
}

func (i Transfer) Compile() types.Instruction {
	return system.Transfer(system.TransferParam{
		From:   i.From,
		To:     i.To,
		Amount: i.Lamports,
	})
}

func (i Burn) Compile() types.Instruction {
	return token.Burn(token.BurnParam{
		Account: i.Account,
		Mint:    i.Mint,
		Auth:    i.Owner,
		Amount:  i.Amount,
	})
}

func (i Freeze) Compile() types.Instruction {
	return token.FreezeAccount(token.FreezeAccountParam{
		Account: i.Account,
		Mint:    i.Mint,
		Auth:    i.Authority,
	})
}

func (i Thaw) Compile() types.Instruction {
	return token.ThawAccount(token.ThawAccountParam{
		Account: i.Account,
		Mint:    i.Mint,
		Auth:    i.Authority,
	})
}

func (i UpdateMetadata) Compile() types.Instruction {
	mutable := true
	return token_metadata.UpdateMetadataAccountV2(token_metadata.UpdateMetadataAccountV2Param{
		MetadataAccount: i.Metadata,
		UpdateAuthority: i.UpdateAuthority,
		Data: &token_metadata.DataV2{
			Name:                 i.Name,
			Symbol:               i.Symbol,
			Uri:                  i.URI,
			SellerFeeBasisPoints: 0,
		},
		IsMutable: &mutable,
	})
}
