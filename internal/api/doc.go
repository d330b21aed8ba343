// Package api implements the HTTP client for the support-channel backend.
//
// # Overview
//
// The console talks to two services: the channel/chat service (channel
// configuration CRUD plus verification chat turns) and the knowledge-base
// service (collections, documents, access keys). Both are REST-style JSON
// APIs; the chat endpoint alone returns plain text.
//
// # Endpoints
//
// Channel service:
//
//   - GET    /admin            - List channel configs
//   - POST   /admin            - Create a channel config
//   - PUT    /admin/{id}       - Update a channel config
//   - DELETE /admin/{id}       - Delete a channel config
//   - POST   /chat/{id}        - Send a verification chat turn
//
// Knowledge-base service:
//
//   - GET    /collections                       - List collections
//   - POST   /collections                       - Create a collection
//   - DELETE /collections/{name}                - Delete a collection
//   - GET    /documents/{collection}            - List document filenames
//   - POST   /documents/{collection}            - Upload a multipart file batch
//   - DELETE /documents/{collection}/{filename} - Delete a document
//   - GET    /admin/{collection}                - Fetch the access key (null if absent)
//   - POST   /admin/{collection}                - Issue an access key
//
// # Errors
//
// Any non-2xx status is a failure. The response body is read best-effort
// and included in the returned error so the operator sees the server's own
// message. Nothing is retried; every failure is terminal for its call.
//
// # Usage
//
//	client := api.New(cfg.ChannelURL, cfg.KbURL, token, logger)
//	channels, err := client.ListChannels(ctx)
package api
