// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends created in ConnectDB and passed to the later
// lifecycle hooks. Shutdown closes them.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// FileStorage holds dashboard media uploads
	FileStorage storage.Store

	// Mailer sends contact notices and subscription confirmations
	Mailer *mailer.Mailer
}
