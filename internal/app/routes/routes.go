package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub-backend/internal/app/controllers"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	lessonController *controllers.LessonController,
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	userController *controllers.UserController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.GET("/verify-email", authController.VerifyEmail)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/profile", authController.Profile)
	authenticated.POST("/users/study-activity", userController.TouchStudyDate)

	// Content mutations additionally require a verified email address
	verified := authenticated.Group("")
	verified.Use(authMiddleware.EmailVerificationRequired())

	// Course routes
	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.GET("/:id/lessons", lessonController.ListLessons)

		coursesWrite := verified.Group("/courses")
		coursesWrite.Use(authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin))
		{
			coursesWrite.POST("", courseController.CreateCourse)
			coursesWrite.PUT("/:id", courseController.UpdateCourse)
			coursesWrite.PATCH("/:id/status", courseController.UpdateStatus)
			coursesWrite.DELETE("/:id", courseController.DeleteCourse)
			coursesWrite.POST("/:id/submit", courseController.SubmitForApproval)
			coursesWrite.POST("/:id/lessons", lessonController.CreateLesson)
		}

		coursesAdmin := authenticated.Group("/courses")
		coursesAdmin.Use(authMiddleware.AdminRequired())
		{
			coursesAdmin.POST("/:id/approve", courseController.Approve)
			coursesAdmin.POST("/:id/reject", courseController.Reject)
		}
	}

	// Lesson routes
	lessons := authenticated.Group("/lessons")
	{
		lessons.GET("/:id", lessonController.GetLesson)

		lessonsWrite := verified.Group("/lessons")
		lessonsWrite.Use(authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin))
		{
			lessonsWrite.PUT("/:id", lessonController.UpdateLesson)
			lessonsWrite.PATCH("/:id/status", lessonController.UpdateStatus)
			lessonsWrite.DELETE("/:id", lessonController.DeleteLesson)
		}
	}

	// Blog post routes
	posts := authenticated.Group("/posts")
	{
		posts.GET("", postController.ListPosts)
		posts.GET("/:id", postController.GetPost)
		posts.POST("/:id/like", postController.ToggleLike)

		postsWrite := verified.Group("/posts")
		postsWrite.Use(authMiddleware.RoleRequired(models.RoleTeacher, models.RoleAdmin))
		{
			postsWrite.POST("", postController.CreatePost)
			postsWrite.PUT("/:id", postController.UpdatePost)
			postsWrite.DELETE("/:id", postController.DeletePost)
			postsWrite.POST("/:id/publish", postController.Publish)
			postsWrite.POST("/:id/unpublish", postController.Unpublish)
		}
	}

	// Comment routes
	comments := authenticated.Group("/comments")
	{
		comments.GET("", commentController.GetThread)
		comments.POST("/:id/reactions", commentController.ToggleReaction)
		comments.POST("/:id/report", commentController.Report)

		commentsWrite := verified.Group("/comments")
		{
			commentsWrite.POST("", commentController.AddComment)
			commentsWrite.PUT("/:id", commentController.UpdateComment)
			commentsWrite.DELETE("/:id", commentController.DeleteComment)
		}

		commentsAdmin := authenticated.Group("/comments")
		commentsAdmin.Use(authMiddleware.AdminRequired())
		{
			commentsAdmin.PATCH("/:id/approval", commentController.SetApproval)
		}
	}

	// Admin user management
	users := authenticated.Group("/users")
	users.Use(authMiddleware.AdminRequired())
	{
		users.GET("", userController.ListUsers)
		users.GET("/:id", userController.GetUser)
		users.PATCH("/:id/active", userController.SetActive)
		users.PATCH("/:id/role", userController.UpdateRole)
	}
}
