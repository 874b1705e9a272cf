package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetwiser/pkg/api"
)

// BackupServiceName is the fully-qualified name of the budgetwiser.v1.BackupService service.
const BackupServiceName = "budgetwiser.v1.BackupService"

// Procedure paths, usable in interceptors and HTTP routing.
const (
	BackupServiceExportBackupProcedure = "/" + BackupServiceName + "/ExportBackup"
	BackupServiceImportBackupProcedure = "/" + BackupServiceName + "/ImportBackup"
)

// BackupServiceHandler is implemented by the server.
// BackupService exports and restores all of a user's data.
type BackupServiceHandler interface {
	ExportBackup(context.Context, *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error)
	ImportBackup(context.Context, *connect.Request[api.ImportBackupRequest]) (*connect.Response[api.ImportBackupResponse], error)
}

// NewBackupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBackupServiceHandler(svc BackupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)
	exportBackupHandler := connect.NewUnaryHandler(BackupServiceExportBackupProcedure, svc.ExportBackup, opts...)
	importBackupHandler := connect.NewUnaryHandler(BackupServiceImportBackupProcedure, svc.ImportBackup, opts...)
	return "/" + BackupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BackupServiceExportBackupProcedure:
			exportBackupHandler.ServeHTTP(w, r)
		case BackupServiceImportBackupProcedure:
			importBackupHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BackupServiceClient is a client for the budgetwiser.v1.BackupService service.
type BackupServiceClient interface {
	ExportBackup(context.Context, *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error)
	ImportBackup(context.Context, *connect.Request[api.ImportBackupRequest]) (*connect.Response[api.ImportBackupResponse], error)
}

// NewBackupServiceClient constructs a client for the budgetwiser.v1.BackupService service.
// baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewBackupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BackupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec())}, opts...)
	return &backupServiceClient{
		exportBackup: connect.NewClient[api.ExportBackupRequest, api.ExportBackupResponse](httpClient, baseURL+BackupServiceExportBackupProcedure, opts...),
		importBackup: connect.NewClient[api.ImportBackupRequest, api.ImportBackupResponse](httpClient, baseURL+BackupServiceImportBackupProcedure, opts...),
	}
}

type backupServiceClient struct {
	exportBackup *connect.Client[api.ExportBackupRequest, api.ExportBackupResponse]
	importBackup *connect.Client[api.ImportBackupRequest, api.ImportBackupResponse]
}

func (c *backupServiceClient) ExportBackup(ctx context.Context, req *connect.Request[api.ExportBackupRequest]) (*connect.Response[api.ExportBackupResponse], error) {
	return c.exportBackup.CallUnary(ctx, req)
}

func (c *backupServiceClient) ImportBackup(ctx context.Context, req *connect.Request[api.ImportBackupRequest]) (*connect.Response[api.ImportBackupResponse], error) {
	return c.importBackup.CallUnary(ctx, req)
}
