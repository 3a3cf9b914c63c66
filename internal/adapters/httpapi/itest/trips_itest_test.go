package itest

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/httpapi"
)

func TestTripJournal_ITest(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b)

			// Users are unique per run so a shared database stays usable.
			owner := time.Now().UnixNano()
			friend := owner + 1

			// Missing auth header => 401
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, "/me", 0, nil)
				requireErrorCode(t, status, body, http.StatusUnauthorized, "UNAUTHORIZED")
			}

			// Create a trip.
			var trip httpapi.Trip
			{
				status, body, hdr := srv.doJSON(t, http.MethodPost, "/trips", owner, map[string]any{
					"name":        "Sierra Loop",
					"destination": "Tahoe",
					"startDate":   "2024-07-04",
					"latitude":    39.09,
					"longitude":   -120.03,
				})
				requireStatus(t, status, body, http.StatusCreated)
				requireHeaderPresent(t, hdr, "Content-Type")
				trip = mustUnmarshal[httpapi.TripResponse](t, body).Trip
				if trip.TripId == "" || trip.StartDate == nil || trip.StartDate.Format("2006-01-02") != "2024-07-04" {
					t.Fatalf("trip=%+v body=%s", trip, string(body))
				}
			}
			tripPath := "/trips/" + trip.TripId

			// Add two items; positions follow insertion order.
			for i, it := range []map[string]any{
				{"type": "Hotel", "name": "Lakeside Inn", "latitude": 39.1, "longitude": -120.0},
				{"type": "Activity", "name": "Kayak"},
			} {
				status, body, _ := srv.doJSON(t, http.MethodPost, tripPath+"/items", owner, it)
				requireStatus(t, status, body, http.StatusCreated)
				if got := mustUnmarshal[httpapi.ItemResponse](t, body).Item; got.Position != i {
					t.Fatalf("position=%d want=%d", got.Position, i)
				}
			}

			// The friend cannot see the trip until it is shared.
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, tripPath, friend, nil)
				requireErrorCode(t, status, body, http.StatusNotFound, "TRIP_NOT_FOUND")
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodPut, tripPath+"/shares/"+strconv.FormatInt(friend, 10), owner, map[string]any{"permission": "view"})
				requireStatus(t, status, body, http.StatusOK)
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, "/trips", friend, nil)
				requireStatus(t, status, body, http.StatusOK)
				list := mustUnmarshal[httpapi.TripListResponse](t, body).Trips
				if len(list) != 1 || list[0].TripId != trip.TripId || list[0].Access != "view" {
					t.Fatalf("list=%+v", list)
				}
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, tripPath+"/items", friend, map[string]any{"type": "Flight", "name": "x"})
				requireErrorCode(t, status, body, http.StatusForbidden, "FORBIDDEN")
			}

			// The trip map shows the trip and the located item.
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, tripPath+"/map", friend, nil)
				requireStatus(t, status, body, http.StatusOK)
				mv := mustUnmarshal[httpapi.MapResponse](t, body)
				if len(mv.Locations) != 2 || mv.Viewport == nil {
					t.Fatalf("map=%s", string(body))
				}
			}

			// Clearing coordinates drops the trip from the dashboard map.
			{
				status, body, _ := srv.doJSON(t, http.MethodPatch, tripPath, owner, map[string]any{"latitude": nil, "longitude": nil})
				requireStatus(t, status, body, http.StatusOK)
				status, body, _ = srv.doJSON(t, http.MethodGet, "/me/map", owner, nil)
				requireStatus(t, status, body, http.StatusOK)
				mv := mustUnmarshal[httpapi.MapResponse](t, body)
				if len(mv.Locations) != 0 || mv.Viewport != nil {
					t.Fatalf("dashboard=%s", string(body))
				}
			}

			// Deleting the trip removes it for everyone.
			{
				status, body, _ := srv.doJSON(t, http.MethodDelete, tripPath, owner, nil)
				requireStatus(t, status, body, http.StatusNoContent)
				status, body, _ = srv.doJSON(t, http.MethodGet, tripPath, friend, nil)
				requireErrorCode(t, status, body, http.StatusNotFound, "TRIP_NOT_FOUND")
			}
		})
	}
}
