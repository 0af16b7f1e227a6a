package transactions

import (
	"context"
	"testing"

	"bartr-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjector_BarterOrientation(t *testing.T) {
	svc, db, _ := setupService(t)
	p := &Projector{DB: db}

	alice := seedUser(t, db)
	bob := seedUser(t, db)
	alicesItem := seedProduct(t, db, alice.UserID, true, 0)
	bobsItem := seedProduct(t, db, bob.UserID, true, 0)

	_, err := svc.Initiate(context.Background(), InitiateInput{
		TransactionType:    TypeHybrid,
		ProductOfferedID:   &alicesItem.ProductID,
		ProductRequestedID: bobsItem.ProductID,
		PriceOffered:       100,
		PriceRequested:     40,
		InitiatorID:        alice.UserID,
	})
	require.NoError(t, err)

	// Alice sees Bob's product and what she is giving (netted 60)
	views, err := p.ListForUser(context.Background(), alice.UserID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, RoleInitiator, views[0].Role)
	require.NotNil(t, views[0].Product)
	assert.Equal(t, bobsItem.ProductID, views[0].Product.ProductID)
	require.NotNil(t, views[0].Counterpart)
	assert.Equal(t, bob.UserID, views[0].Counterpart.UserID)
	assert.Equal(t, int64(60), views[0].PriceOffered)
	assert.Equal(t, int64(0), views[0].PriceRequested)

	// Bob sees Alice's product and the prices from his side
	views, err = p.ListForUser(context.Background(), bob.UserID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, RoleRecipient, views[0].Role)
	require.NotNil(t, views[0].Product)
	assert.Equal(t, alicesItem.ProductID, views[0].Product.ProductID)
	require.NotNil(t, views[0].Counterpart)
	assert.Equal(t, alice.UserID, views[0].Counterpart.UserID)
	assert.Equal(t, int64(0), views[0].PriceOffered)
	assert.Equal(t, int64(60), views[0].PriceRequested)
}

func TestProjector_SaleShowsTheItemToBothSides(t *testing.T) {
	svc, db, _ := setupService(t)
	p := &Projector{DB: db}
	_, buyer, seller, item := seedSale(t, svc, db)

	for _, viewer := range []*models.User{buyer, seller} {
		views, err := p.ListForUser(context.Background(), viewer.UserID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.NotNil(t, views[0].Product)
		assert.Equal(t, item.ProductID, views[0].Product.ProductID)
	}
}

func TestProjector_RoleFilters(t *testing.T) {
	svc, db, _ := setupService(t)
	p := &Projector{DB: db}
	_, buyer, seller, _ := seedSale(t, svc, db)

	asInitiator, err := p.ListAsInitiator(context.Background(), buyer.UserID)
	require.NoError(t, err)
	assert.Len(t, asInitiator, 1)

	asInitiator, err = p.ListAsInitiator(context.Background(), seller.UserID)
	require.NoError(t, err)
	assert.Len(t, asInitiator, 0)

	asRecipient, err := p.ListAsRecipient(context.Background(), seller.UserID)
	require.NoError(t, err)
	assert.Len(t, asRecipient, 1)
}

func TestProjector_ProductTransactionsIncludesClosed(t *testing.T) {
	svc, db, _ := setupService(t)
	p := &Projector{DB: db}
	txn, buyer, _, item := seedSale(t, svc, db)

	_, err := svc.UpdateAsInitiator(context.Background(), UpdateInput{
		TransactionID:   txn.TransactionID,
		ActorID:         buyer.UserID,
		RequestedStatus: StatusCancel,
	})
	require.NoError(t, err)

	views, err := p.ProductTransactions(context.Background(), item.ProductID, buyer.UserID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, string(StatusCancel), views[0].OrderStatus)
}

func TestProjector_Details(t *testing.T) {
	svc, db, _ := setupService(t)
	p := &Projector{DB: db}
	txn, buyer, seller, item := seedSale(t, svc, db)

	detail, err := p.Details(context.Background(), txn.TransactionID, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, txn.TransactionID, detail.TransactionID)
	require.NotNil(t, detail.ProductRequested)
	assert.Equal(t, item.ProductID, detail.ProductRequested.ProductID)
	assert.Nil(t, detail.ProductOffered)
	require.NotNil(t, detail.Initiator)
	assert.Equal(t, buyer.UserID, detail.Initiator.UserID)
	require.NotNil(t, detail.Recipient)
	assert.Equal(t, seller.UserID, detail.Recipient.UserID)
}

func TestProjector_DetailsAccess(t *testing.T) {
	svc, db, _ := setupService(t)
	p := &Projector{DB: db}
	txn, buyer, _, _ := seedSale(t, svc, db)
	stranger := seedUser(t, db)

	// an unrelated user with no block relation may look
	_, err := p.Details(context.Background(), txn.TransactionID, stranger.UserID)
	assert.NoError(t, err)

	// a block against either party shuts the view
	require.NoError(t, db.Create(&models.UserBlock{BlockerID: buyer.UserID, BlockedID: stranger.UserID}).Error)
	_, err = p.Details(context.Background(), txn.TransactionID, stranger.UserID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}
