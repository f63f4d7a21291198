// Package api is the HTTP surface of the relay: publish and mark-read
// endpoints for notifications, plus backlog and chat history reads.
//
// All endpoints speak JSON. Mutations reply with an {ok, ...} envelope;
// validation problems come back as 400 with {ok:false, error}, storage
// failures as 500.
package api
