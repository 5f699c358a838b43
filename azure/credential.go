package azure

import (
	"context"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/friendsofgo/errors"
)

// lazyCredential creates the DefaultAzureCredential on first use.
// A failure to create it is returned from every token request,
// so it is reported per subscription instead of aborting the run.
type lazyCredential struct {
	tenantID string

	once       sync.Once
	credential azcore.TokenCredential
	err        error
}

// NewDefaultCredential returns a credential backed by azidentity.DefaultAzureCredential.
// tenantID is optional and overwrites the default Azure Tenant ID.
func NewDefaultCredential(tenantID string) azcore.TokenCredential {
	return &lazyCredential{tenantID: tenantID}
}

func (l *lazyCredential) GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	l.once.Do(func() {
		credential, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: l.tenantID,
		})
		if err != nil {
			l.err = errors.Wrap(err, "failed to get default Azure Credentials")
			return
		}
		l.credential = credential
	})

	if l.err != nil {
		return azcore.AccessToken{}, l.err
	}
	return l.credential.GetToken(ctx, options)
}
