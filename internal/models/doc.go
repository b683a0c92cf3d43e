// Package models defines the core domain models for MyFishingDiary.
//
// # Documents
//
// The models map one-to-one onto documents in the backing store:
//   - User: Registered account, stored in the Users collection
//   - Trip: A fishing outing, stored in the Trips collection, with its
//     Fish and Comment entries embedded
//   - FishingGroup: Named set of users, stored in the FishingGroups collection
//
// # Design Principles
//
// 1. **Flat documents**: Each document is persisted as-is, nested entries included
// 2. **Emails as references**: Trips, comments and groups point at users by email
// 3. **Document ids everywhere**: All ids are 24-hex-character ObjectIDs so both
//    storage backends accept the same URLs
package models
