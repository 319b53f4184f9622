package main

import (
	"log/slog"
	"time"
)

func main() {
	slog.Info("Starting data retention job")
	start := time.Now()

	if conf.RunTasks.ExpireStaleAttempts {
		expireStaleAttempts()
	}

	if conf.RunTasks.DeleteMarkedUsers {
		deleteMarkedUsers()
	}

	slog.Info("Data retention job completed", slog.Duration("duration", time.Since(start)))
}

func expireStaleAttempts() {
	for _, instanceID := range conf.InstanceIDs {
		slog.Debug("Start expiring stale attempts", slog.String("instanceID", instanceID))

		startedBefore := time.Now().Add(-conf.RetentionConfig.ExpireAttemptsAfter).Unix()
		count, err := assessmentDBService.ExpireStaleAttempts(instanceID, startedBefore)
		if err != nil {
			slog.Error("Error expiring stale attempts", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
			continue
		}

		slog.Info("Expiring stale attempts finished", slog.String("instanceID", instanceID), slog.Int("count", int(count)))
	}
}

func deleteMarkedUsers() {
	for _, instanceID := range conf.InstanceIDs {
		slog.Debug("Start deleting users marked for deletion", slog.String("instanceID", instanceID))

		markedBefore := time.Now().Add(-conf.RetentionConfig.DeleteMarkedUsersAfter).Unix()
		users, err := platformUserDBService.GetUsersMarkedForDeletion(instanceID, markedBefore)
		if err != nil {
			slog.Error("Error fetching users marked for deletion", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
			continue
		}

		count := 0
		for _, user := range users {
			userID := user.ID.Hex()
			if _, err := assessmentDBService.DeleteAttemptsForUser(instanceID, userID); err != nil {
				slog.Error("Error deleting attempts for user", slog.String("instanceID", instanceID), slog.String("userID", userID), slog.String("error", err.Error()))
				continue
			}
			if err := platformUserDBService.DeleteUser(instanceID, userID); err != nil {
				slog.Error("Error deleting user", slog.String("instanceID", instanceID), slog.String("userID", userID), slog.String("error", err.Error()))
				continue
			}
			count = count + 1
		}

		slog.Info("Deleting marked users finished", slog.String("instanceID", instanceID), slog.Int("count", count))
	}
}
